// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the markcheck CLI, a test harness
// that validates document-conversion container images against fixture
// documents and golden output files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the markcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "markcheck",
	Short: "Test harness for containerized document converters",
	Long: `markcheck validates a document-conversion tool packaged inside a container
image. It runs the converter against fixture documents and compares the
output against golden files, or checks for conversion success.

Targets, their prerequisites, and version-gated style families are defined
in a YAML suite file (markcheck.yaml by default). Run a single target, an
aggregate, or the whole suite.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./markcheck.yaml or ~/.config/markcheck/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markcheck"))
		}
	}

	viper.SetEnvPrefix("MARKCHECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
