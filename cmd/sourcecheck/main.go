// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sourcecheck CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sourcecheck/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the sourcecheck CLI.
var rootCmd = &cobra.Command{
	Use:   "sourcecheck",
	Short: "Find, verify, and audit citable sources for tax research",
	Long: `sourcecheck turns a free-text Canadian tax question into a ranked list of
verified, citable web sources, and audits generated answers against the
sources that produced them.

Each stage is a subcommand: plan shows the search queries for a question,
find runs the full source pipeline, verify checks a single URL, answer
generates a cited answer, and validate audits an existing answer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sourcecheck.yaml or ~/.config/sourcecheck/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json (default console)")
	rootCmd.PersistentFlags().String("search-key", "", "web search API key (overrides env and .secrets/)")
	rootCmd.PersistentFlags().String("openai-key", "", "generation API key (overrides env and .secrets/)")
	rootCmd.PersistentFlags().Bool("cache", false, "cache search results and URL verifications")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sourcecheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sourcecheck"))
		}
	}

	viper.SetEnvPrefix("SOURCECHECK")
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
