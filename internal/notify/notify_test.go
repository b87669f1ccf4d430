package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomeddev/equipment-maintenance/internal/config"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

type stubChannel struct {
	name  string
	err   error
	calls int
	got   []models.UpcomingEntry
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Notify(ctx context.Context, entries []models.UpcomingEntry) error {
	s.calls++
	s.got = entries
	return s.err
}

func sampleEntries() []models.UpcomingEntry {
	return []models.UpcomingEntry{
		{
			Equipment:  "Ventilator",
			Serial:     "VNT-001",
			Period:     "Quarter II",
			Department: "ICU",
			DueDate:    "15/04/2025",
			Engineer:   "Sara",
		},
		{
			Equipment:  "Infusion Pump",
			Serial:     "INF-002",
			Period:     "Quarter I",
			Department: "ER",
			DueDate:    "20/04/2025",
			Engineer:   "n/a",
		},
	}
}

func TestDispatcher_AllChannels(t *testing.T) {
	a := &stubChannel{name: "email"}
	b := &stubChannel{name: "mqtt"}
	d := NewDispatcher(a, b)

	err := d.Dispatch(context.Background(), sampleEntries())
	assert.NoError(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Len(t, a.got, 2)
}

func TestDispatcher_FailingChannelDoesNotStopOthers(t *testing.T) {
	a := &stubChannel{name: "email", err: errors.New("smtp down")}
	b := &stubChannel{name: "mqtt"}
	d := NewDispatcher(a, b)

	err := d.Dispatch(context.Background(), sampleEntries())
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Contains(t, err.Error(), "email")
	assert.Equal(t, 1, b.calls, "second channel should still run")
}

func TestEmailSender_RenderIncludesEveryEntry(t *testing.T) {
	s := NewEmailSender(config.Config{ReminderDays: 60})

	body, err := s.render(sampleEntries())
	require.NoError(t, err)

	assert.Contains(t, body, "next 60 days")
	assert.Contains(t, body, "VNT-001")
	assert.Contains(t, body, "Quarter II")
	assert.Contains(t, body, "15/04/2025")
	assert.Contains(t, body, "INF-002")
	assert.Contains(t, body, "ER")
}

func TestEmailSender_MessageHeaders(t *testing.T) {
	s := NewEmailSender(config.Config{
		EmailSender:   "noreply@hospital.example",
		EmailReceiver: "biomed@hospital.example",
		CCEmails:      []string{"manager@hospital.example"},
	})

	msg := string(s.message([]string{"biomed@hospital.example"}, "<html></html>"))
	assert.Contains(t, msg, "From: noreply@hospital.example\r\n")
	assert.Contains(t, msg, "To: biomed@hospital.example\r\n")
	assert.Contains(t, msg, "Cc: manager@hospital.example\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
}

func TestEmailSender_NotifyRequiresAddresses(t *testing.T) {
	s := NewEmailSender(config.Config{})
	err := s.Notify(context.Background(), sampleEntries())
	assert.Error(t, err)
}
