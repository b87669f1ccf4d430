// Package config loads runtime settings from the environment. Load re-reads
// the .env file every time it is called, so operators can change SMTP
// credentials or the reminder interval without restarting the process: the
// scheduler reloads at the start of every tick.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every runtime setting. It is a plain value: callers receive a
// snapshot and nothing mutates it behind their back.
type Config struct {
	Port    string
	MongoURI string
	MongoDB  string

	SMTPServer    string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	EmailSender   string
	EmailReceiver string
	CCEmails      []string

	ReminderDays      int  // look-ahead window for reminder emails
	SchedulerEnabled  bool // checked once at process start
	SchedulerInterval int  // hours between ticks

	MQTTBrokerURL  string // empty disables the MQTT alert channel
	MQTTAlertTopic string

	JWTSecret string
	JWTExpiry string
}

// Load reads the .env file (if present) on top of the current environment
// and returns a fresh snapshot with defaults applied.
func Load() Config {
	if err := godotenv.Overload(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Debug("no .env file loaded")
	}

	cfg := Config{
		Port:     envOr("PORT", "8080"),
		MongoURI: envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  envOr("MONGO_DB", "equipment"),

		SMTPServer:    envOr("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:      envInt("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		EmailReceiver: os.Getenv("EMAIL_RECEIVER"),

		ReminderDays:      envInt("REMINDER_DAYS", 60),
		SchedulerEnabled:  envBool("SCHEDULER_ENABLED", true),
		SchedulerInterval: envInt("SCHEDULER_INTERVAL", 24),

		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		MQTTAlertTopic: envOr("MQTT_ALERT_TOPIC", "equipment/maintenance/alerts"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: os.Getenv("JWT_EXPIRY"),
	}

	for _, key := range []string{"CC_EMAIL_1", "CC_EMAIL_2", "CC_EMAIL_3"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.CCEmails = append(cfg.CCEmails, v)
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.EqualFold(v, "true")
}
