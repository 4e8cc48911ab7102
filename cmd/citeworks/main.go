// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citeworks CLI, a suite of editorial
// tools for tagged manuscript references: renumbering, merge of corrected
// reference lists, deduplication, uncited cleanup, footnote handling, view
// synchronization, AI-assisted reference parsing, and run history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citeworks/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the citeworks CLI.
var rootCmd = &cobra.Command{
	Use:   "citeworks",
	Short: "Editorial tools for tagged manuscript references",
	Long: `citeworks processes manuscripts carrying inline reference markup. Each
editorial operation is a subcommand: renumber relabels the bibliography,
merge folds a corrected reference list back in, dedupe collapses duplicate
entries, uncited finds and purges never-cited entries, footnotes and
tablefoot move notes between inline and legend form, sync aligns two views
of one document, parse turns raw citation lines into markup, and clip
prepares text for pasting.

Every tool rewrites citations to match and emits a change log for review.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citeworks.yaml or ~/.config/citeworks/config.yaml)")
	rootCmd.PersistentFlags().String("history-dir", "", "directory for the run-history database (empty disables recording)")
	rootCmd.PersistentFlags().Bool("no-history", false, "skip recording this run in history")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citeworks")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citeworks"))
		}
	}

	viper.SetEnvPrefix("CITEWORKS")
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
