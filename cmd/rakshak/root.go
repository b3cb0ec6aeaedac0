// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	addr       string
	timeout    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "rakshak",
		Short: "Personal safety SOS alert agent",
		Long: `rakshak runs a local agent that owns the SOS alert session: it notifies
trusted contacts, keeps the backend updated with your location while the
alert is active, and resumes an active alert after a restart.

Quick Start:
  rakshak run --config rakshak.yaml   # start the agent
  rakshak toggle                      # press the SOS button
  rakshak status                      # show the current state`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", "http://127.0.0.1:8730", "control API address of a running agent")
	root.PersistentFlags().StringVar(&opts.timeout, "timeout", "90s", "request timeout for client commands")

	root.AddCommand(
		newRunCmd(opts),
		newToggleCmd(opts),
		newStatusCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rakshak %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}
