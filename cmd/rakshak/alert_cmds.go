// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/api"
	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/Divyansh7131/Rakshak/internal/notify"
	"github.com/spf13/cobra"
)

// toggleOutcomeStatuses are the non-2xx codes that still carry an outcome.
var toggleOutcomeStatuses = []int{
	http.StatusConflict,
	http.StatusForbidden,
	http.StatusUnauthorized,
	http.StatusServiceUnavailable,
	http.StatusBadGateway,
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Start or stop the SOS alert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAgentClient(opts)
			if err != nil {
				return err
			}
			var resp api.ToggleResponse
			if _, err := c.do(cmd.Context(), http.MethodPost, "/api/v1/alert/toggle", &resp, toggleOutcomeStatuses...); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Message)
			fmt.Fprintf(out, "state: %s  button: %s\n", resp.State.Status, resp.State.Label)
			switch resp.Outcome {
			case model.OutcomeStarted, model.OutcomeStopped:
				return nil
			}
			return fmt.Errorf("toggle %s", resp.Outcome)
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current alert state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAgentClient(opts)
			if err != nil {
				return err
			}
			var snap struct {
				Session   model.AlertSession `json:"session"`
				Reporting bool               `json:"reporting"`
			}
			if _, err := c.do(cmd.Context(), http.MethodGet, "/api/v1/alert/session", &snap); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, snap)
			}
			out := cmd.OutOrStdout()
			s := snap.Session
			state := model.DisplayStateFor(s)
			fmt.Fprintf(out, "status:    %s\n", s.Status)
			fmt.Fprintf(out, "button:    %s\n", state.Label)
			if s.ID != "" {
				fmt.Fprintf(out, "session:   %s\n", s.ID)
			}
			if s.StartedAt != nil {
				fmt.Fprintf(out, "started:   %s\n", s.StartedAt.Local().Format(time.RFC1123))
			}
			if p := s.LastKnownPosition; p != nil {
				fmt.Fprintf(out, "location:  %s\n", notify.MapsLink(*p))
			}
			fmt.Fprintf(out, "reporting: %t\n", snap.Reporting)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past alerts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newAgentClient(opts)
			if err != nil {
				return err
			}
			var resp api.HistoryResponse
			if _, err := c.do(cmd.Context(), http.MethodGet, "/api/v1/alert/history", &resp); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, resp)
			}
			if len(resp.Alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no alerts yet")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSTATUS\tLOCATION\tID")
			for _, e := range resp.Alerts {
				when := "-"
				if !e.Timestamp.IsZero() {
					when = e.Timestamp.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%.5f,%.5f\t%s\n", when, e.Status, e.Latitude, e.Longitude, e.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}
