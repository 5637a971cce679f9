package main

import (
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/taskmail/internal/notify/app"
	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one due-reminder pass and print the result",
	Long: `Runs the daily digest once, outside the cron schedule, against the
configured store and mail provider. Useful from an external scheduler.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := app.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := app.NewLogger(cfg)
		ctx = slogx.WithContext(ctx, logger)

		st, err := app.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ApplyMigrations(); err != nil {
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

		d, closeLedger, err := app.NewDispatcher(ctx, cfg, st, app.NewMailer(cfg, logger), logger)
		if err != nil {
			return err
		}
		if closeLedger != nil {
			defer closeLedger()
		}

		eventID := service.NewReminderRunID()
		res, err := d.DueReminders(ctx, eventID)
		if err != nil {
			return fmt.Errorf("reminder run %s failed: %w", eventID, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(notifysdk.DispatchResponse{
			EventID: eventID,
			Kind:    string(res.Kind),
			State:   string(res.State),
			Sent:    res.Sent,
			Skipped: res.Skipped,
			Failed:  res.Failed,
			Reason:  res.Reason,
		})
	},
}
