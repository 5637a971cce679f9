package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"

	LedgerNone   = "none"
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: notify.db)
	DatabaseURL    string // Postgres connection URL, required for the postgres driver

	AppURL string // Base URL of the web app used in email links (default: http://localhost:3000)

	MailProvider   string  // resend, smtp or log (default: log)
	MailFrom       string  // From header of every email
	ResendBaseURL  string  // Optional: override for the Resend API
	MailRatePerSec float64 // Optional: outbound pacing for Resend (default: 2)
	SMTPHost       string
	SMTPPort       int // (default: 587)
	SMTPUsername   string
	SMTPPassword   string

	RemindersEnabled bool   // Run the daily reminder scheduler (default: true)
	ReminderSchedule string // Cron expression (default: 0 9 * * *)
	ReminderTimezone string // IANA zone for the schedule and day boundaries (default: America/New_York)

	EventsIssuer string // Optional: required iss claim on ingestion tokens

	IdempotencyLedger string        // none, memory or redis (default: none)
	IdempotencyTTL    time.Duration // Claim lifetime (default: 24h)
	RedisAddr         string
	RedisDB           int
}

// LoadConfig reads the environment, after loading a .env file when present.
// Secrets are not part of Config; they are read at call time by
// ResendAPIKey and EventsSigningSecret.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "notify.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		AppURL: getEnvOrDefault("APP_URL", "http://localhost:3000"),

		MailProvider:   getEnvOrDefault("MAIL_PROVIDER", ProviderLog),
		MailFrom:       getEnvOrDefault("MAIL_FROM", "Tasks <noreply@localhost>"),
		ResendBaseURL:  os.Getenv("RESEND_BASE_URL"),
		MailRatePerSec: getEnvFloatOrDefault("MAIL_RATE_PER_SEC", 2),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),

		RemindersEnabled: getEnvBoolOrDefault("REMINDERS_ENABLED", true),
		ReminderSchedule: getEnvOrDefault("REMINDER_SCHEDULE", service.DefaultReminderSchedule),
		ReminderTimezone: getEnvOrDefault("REMINDER_TIMEZONE", "America/New_York"),

		EventsIssuer: os.Getenv("EVENTS_ISSUER"),

		IdempotencyLedger: getEnvOrDefault("IDEMPOTENCY_LEDGER", LedgerNone),
		IdempotencyTTL:    getEnvDurationOrDefault("IDEMPOTENCY_TTL", service.DefaultLedgerTTL),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvIntOrDefault("REDIS_DB", 0),
	}
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.MailProvider {
	case ProviderResend, ProviderLog:
	case ProviderSMTP:
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider))
	}

	switch c.IdempotencyLedger {
	case LedgerNone, LedgerMemory, LedgerRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown IDEMPOTENCY_LEDGER %q", c.IdempotencyLedger))
	}

	if _, err := time.LoadLocation(c.ReminderTimezone); err != nil {
		errs = append(errs, fmt.Errorf("REMINDER_TIMEZONE: %w", err))
	}
	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		errs = append(errs, fmt.Errorf("REMINDER_SCHEDULE: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Location returns the configured reminder timezone, or UTC if it does not load.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResendAPIKey reads the API key on every send.
func ResendAPIKey() string { return os.Getenv("RESEND_API_KEY") }

// EventsSigningSecret reads the ingestion token secret on every request.
func EventsSigningSecret() string { return os.Getenv("EVENTS_SIGNING_SECRET") }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f >= 0 {
		return f
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
