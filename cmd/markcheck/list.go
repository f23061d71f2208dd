// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markcheck/internal/suite"
	"github.com/pdiddy/markcheck/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List suite targets and their prerequisites",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	suiteFile, _ := cmd.Flags().GetString("suite")
	if suiteFile == "" {
		suiteFile = viper.GetString("harness.suite_file")
	}
	if suiteFile == "" {
		suiteFile = types.DefaultSuiteFile
	}

	targets, err := suite.Load(suiteFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-22s  %-18s  %-10s  %s\n",
		"Target", "Needs", "Fixture", "Gate", "Expected")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, t := range targets {
		if t.IsAggregate() {
			fmt.Fprintf(os.Stdout, "%-24s  -> %s\n", t.Name, strings.Join(t.Children, ", "))
			continue
		}
		gate := "-"
		if t.MinVersion != "" {
			gate = ">= " + t.MinVersion
		}
		expected := t.Expected
		if expected == "" {
			expected = "(success only)"
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-22s  %-18s  %-10s  %s\n",
			t.Name, strings.Join(t.Needs, ", "), t.Fixture, gate, expected)
	}
	return nil
}

func init() {
	listCmd.Flags().String("suite", "", "suite file defining targets (default markcheck.yaml)")
	rootCmd.AddCommand(listCmd)
}
