// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the interp-assistant CLI.
// Implements: prd001-routing, prd002-gateway, prd003-agents,
//             prd004-generation, prd005-evaluation (CLI surface).
// See docs/ARCHITECTURE § Assistant Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/interp-assistant/internal/secrets"
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

// rootCmd is the base command for the interp-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "interp-assistant",
	Short: "Multi-agent research assistant for mechanistic interpretability",
	Long: `interp-assistant answers questions about mechanistic interpretability by
routing each question to a specialist agent. The Feature-Extraction
specialist covers SAEs, dictionary learning, and tooling; the
Circuits-Analysis specialist covers circuits, attention heads, and
causal interventions. Specialists gather evidence through a web search
gateway served by a separate process and ground their answers in it.

Use ask for one question, chat for an interactive session, and eval to
run the evaluation suite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", secrets.Keys(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./interp-assistant.yaml or ~/.config/interp-assistant/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("interp-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "interp-assistant"))
		}
	}

	viper.SetEnvPrefix("INTERP_ASSISTANT")
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
