// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"

	"github.com/Divyansh7131/Rakshak/internal/config"
	"github.com/Divyansh7131/Rakshak/internal/daemon"
	"github.com/Divyansh7131/Rakshak/internal/log"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the alert agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd.Context(), opts.configPath)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (YAML)")
	return cmd
}

func runAgent(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	log.Configure(log.Config{Level: "info", Version: version})

	loader := config.NewLoader(configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Service: cfg.LogService, Version: version})
	logger := log.WithComponent("main")
	logger.Info().
		Str("config", configPath).
		Str("store", cfg.Store.Backend).
		Str("listen", cfg.API.ListenAddr).
		Dur("report_interval", cfg.Alert.ReportInterval).
		Msg("starting rakshak")

	ctx, stop := daemon.SignalContext(parent)
	defer stop()

	rt, err := daemon.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}

	app := daemon.NewApp(rt, config.NewConfigHolder(cfg, loader), nil)
	if err := app.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("rakshak stopped")
	return nil
}
