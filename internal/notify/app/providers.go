package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskmail/internal/notify/ledger"
	"github.com/aussiebroadwan/taskmail/internal/notify/mailer"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/postgres"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/sqlite"
	"github.com/redis/go-redis/v9"
)

// OpenStore opens the configured document store without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		st, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return st, nil
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		st, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return st, nil
	}
}

// NewMailer builds the configured delivery provider.
func NewMailer(cfg Config, logger *slog.Logger) mailer.Sender {
	switch cfg.MailProvider {
	case ProviderResend:
		logger.Info("mail provider: resend", slog.Float64("rate_per_sec", cfg.MailRatePerSec))
		return mailer.NewResend(mailer.ResendConfig{
			APIKey:     ResendAPIKey,
			BaseURL:    cfg.ResendBaseURL,
			RatePerSec: cfg.MailRatePerSec,
		})
	case ProviderSMTP:
		logger.Info("mail provider: smtp", slog.String("host", cfg.SMTPHost), slog.Int("port", cfg.SMTPPort))
		return mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	default:
		logger.Warn("mail provider: log, emails are not delivered")
		return mailer.Log{}
	}
}

// NewLedger builds the configured claim ledger. It returns nil, and a nil
// closer, when claims are disabled.
func NewLedger(ctx context.Context, cfg Config, logger *slog.Logger) (ledger.Ledger, func() error, error) {
	switch cfg.IdempotencyLedger {
	case LedgerMemory:
		logger.Info("idempotency ledger: memory")
		return ledger.NewMemory(), nil, nil
	case LedgerRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("idempotency ledger: redis", slog.String("addr", cfg.RedisAddr))
		return ledger.NewRedis(client, "notify:claim:"), client.Close, nil
	default:
		return nil, nil, nil
	}
}
