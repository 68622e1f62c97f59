package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"linerelay/internal/app"
	"linerelay/internal/config"
	"linerelay/internal/log"
)

func main() {
	var (
		configPath string
		overrides  config.Config
	)

	rootCmd := &cobra.Command{
		Use:           "linerelay",
		Short:         "Text-line chat relay server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			bootLog := log.New("info")

			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().
				Str("config", path).
				Str("addr", cfg.Addr).
				Str("http_addr", cfg.HTTPAddr).
				Msg("starting linerelay")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(cfg, logger).Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.Flags().StringVar(&overrides.Addr, "addr", "", "TCP listen address")
	rootCmd.Flags().StringVar(&overrides.HTTPAddr, "http-addr", "", "ops HTTP listen address")
	rootCmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().DurationVar(&overrides.DrainTimeout, "drain-timeout", 0, "logout drain timeout")
	rootCmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
