// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markcheck/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the converter output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, _ := cmd.Flags().GetString("output-dir")
		if outputDir == "" {
			outputDir = viper.GetString("harness.output_dir")
		}
		if outputDir == "" {
			outputDir = types.DefaultOutputDir
		}

		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("removing %s: %w", outputDir, err)
		}
		fmt.Printf("Removed %s\n", outputDir)
		return nil
	},
}

func init() {
	cleanCmd.Flags().String("output-dir", "", "directory for converter output (default output)")
	rootCmd.AddCommand(cleanCmd)
}
