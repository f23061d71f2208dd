// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markcheck/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded harness runs",
	Long: `History lists past runs recorded in the local history database, newest
first. Use --targets with a run ID to show that run's per-target outcomes.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(history.DefaultPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetInt64("targets")
	if runID > 0 {
		return printRunTargets(store, runID)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-28s  %-6s  %-6s  %-7s  %-7s  %s\n",
		"Run", "Started", "Image", "Pass", "Fail", "Skip", "Block", "Exit")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-28s  %-6d  %-6d  %-7d  %-7d  %d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Image,
			r.Passed, r.Failed, r.Skipped, r.Blocked, r.ExitCode)
	}
	return nil
}

func printRunTargets(store *history.Store, runID int64) error {
	targets, err := store.Targets(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets recorded for run %d", runID)
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-8s  %-10s  %s\n", "Target", "Status", "Duration", "Detail")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, t := range targets {
		fmt.Fprintf(os.Stdout, "%-30s  %-8s  %-10s  %s\n",
			t.Target, t.Status, t.Duration, t.Reason)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum runs to list")
	historyCmd.Flags().Int64("targets", 0, "run ID whose per-target outcomes to show")
	rootCmd.AddCommand(historyCmd)
}
