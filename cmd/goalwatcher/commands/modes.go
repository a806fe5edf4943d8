package commands

import (
	"github.com/spf13/cobra"

	"GoalWatcher/internal/app"
	"GoalWatcher/internal/config"
	"GoalWatcher/internal/logging"
)

func init() {
	rootCmd.AddCommand(
		modeCommand(config.ModeRun, "Scrape, store and notify in one process."),
		modeCommand(config.ModeSave, "Scrape the listing and store matches on every cycle."),
		modeCommand(config.ModeNotify, "Watch stored matches, announce score changes and post the daily schedule."),
		modeCommand(config.ModeOnce, "Run a single scrape and notify cycle, then exit."),
	)
}

func modeCommand(mode config.Mode, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.Load(configPath)
			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

			application, err := app.New(ctx, cfg, mode, logger)
			if err != nil {
				logger.Error("startup failed", "mode", string(mode), "error", err)
				return err
			}
			defer func() {
				if err := application.Close(); err != nil {
					logger.Warn("shutdown", "error", err)
				}
			}()

			logger.Info("goalwatcher started", "mode", string(mode))
			if err := application.Run(ctx); err != nil {
				logger.Error("application stopped", "error", err)
				return err
			}
			logger.Info("goalwatcher stopped", "mode", string(mode))
			return nil
		},
	}
}
