package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DB", "SMTP_SERVER", "SMTP_PORT",
		"REMINDER_DAYS", "SCHEDULER_ENABLED", "SCHEDULER_INTERVAL",
		"CC_EMAIL_1", "CC_EMAIL_2", "CC_EMAIL_3", "MQTT_BROKER_URL",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "equipment", cfg.MongoDB)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 60, cfg.ReminderDays)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, 24, cfg.SchedulerInterval)
	assert.Empty(t, cfg.CCEmails)
	assert.Empty(t, cfg.MQTTBrokerURL)
	assert.Equal(t, "equipment/maintenance/alerts", cfg.MQTTAlertTopic)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REMINDER_DAYS", "14")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_INTERVAL", "6")
	t.Setenv("CC_EMAIL_1", "manager@hospital.example")
	t.Setenv("CC_EMAIL_3", "director@hospital.example")

	cfg := Load()

	assert.Equal(t, 14, cfg.ReminderDays)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, 6, cfg.SchedulerInterval)
	assert.Equal(t, []string{"manager@hospital.example", "director@hospital.example"}, cfg.CCEmails)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("REMINDER_DAYS", "soon")
	cfg := Load()
	assert.Equal(t, 60, cfg.ReminderDays)
}
