// Package notify delivers maintenance reminders over the configured
// channels. Each channel implements Notifier; the Dispatcher fans a batch
// of upcoming services out to all of them.
package notify

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

// ErrDispatchFailed is returned when at least one channel rejected a batch.
var ErrDispatchFailed = errors.New("notification dispatch failed")

// Notifier is one delivery channel for reminder batches.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, entries []models.UpcomingEntry) error
}

// Dispatcher fans reminder batches out to every registered channel.
type Dispatcher struct {
	channels []Notifier
}

// NewDispatcher returns a Dispatcher over the given channels.
func NewDispatcher(channels ...Notifier) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch sends the batch to every channel. A failing channel is logged
// and skipped; the error returned names the channels that failed.
func (d *Dispatcher) Dispatch(ctx context.Context, entries []models.UpcomingEntry) error {
	var failed []string
	for _, ch := range d.channels {
		if err := ch.Notify(ctx, entries); err != nil {
			log.WithError(err).Errorf("%s notification failed", ch.Name())
			failed = append(failed, ch.Name())
			continue
		}
		log.Infof("%s notification sent for %d upcoming services", ch.Name(), len(entries))
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w on channels: %v", ErrDispatchFailed, failed)
	}
	return nil
}
