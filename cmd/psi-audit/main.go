// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the psi-audit CLI.
// Implements: prd001-ingestion, prd002-scoring, prd003-batch,
//             prd004-session, prd005-advice, prd006-reporting (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NaomiVK/page-speed-accessibility/internal/secrets"
	"github.com/NaomiVK/page-speed-accessibility/internal/session"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
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

// resolveScoringKey resolves the PageSpeed Insights API key: the flag value,
// then config/env (scoring.api_key, PAGESPEED_API_KEY), then the
// .secrets/psi-api-key file. Empty is valid; calls run unauthenticated.
func resolveScoringKey(flagValue string) string {
	if flagValue == "" {
		flagValue = viper.GetString("scoring.api_key")
	}
	return secretDefault("psi-api-key", flagValue)
}

// resolveAdviceKey resolves the OpenAI API key the same way, from
// advice.api_key / OPENAI_API_KEY / .secrets/openai-api-key. Empty disables
// only the analyze path.
func resolveAdviceKey(flagValue string) string {
	if flagValue == "" {
		flagValue = viper.GetString("advice.api_key")
	}
	return secretDefault("openai-api-key", flagValue)
}

// configDuration returns the configured duration for key, or def when the
// config carries no value.
func configDuration(key string, def time.Duration) time.Duration {
	if v := viper.GetDuration(key); v != 0 {
		return v
	}
	return def
}

// configString returns the configured string for key, or def when unset.
func configString(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

// configInt returns the configured int for key, or def when unset.
func configInt(key string, def int) int {
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return def
}

// configFloat returns the configured float for key, or def when unset.
func configFloat(key string, def float64) float64 {
	if v := viper.GetFloat64(key); v != 0 {
		return v
	}
	return def
}

const defaultDataDir = "data"

// openSession opens the session database under the configured data directory.
func openSession() (*session.Store, error) {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = configString("session.data_dir", defaultDataDir)
	}
	return session.Open(types.SessionConfig{DataDir: dataDir})
}

// rootCmd is the base command for the psi-audit CLI.
var rootCmd = &cobra.Command{
	Use:   "psi-audit",
	Short: "Batch accessibility auditing through the PageSpeed Insights API",
	Long: `psi-audit scores web pages against the Lighthouse accessibility category
using the PageSpeed Insights API. It reads URLs from a CSV file, audits each
one per device strategy, and keeps every run in a local session database.

Each pipeline operation is a subcommand: audit scores a batch of URLs,
report renders the summary table or a per-page drill-down, analyze asks an
AI model for remediation advice on a page's failed audits, and export
writes the output table as CSV.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./psi-audit.yaml or ~/.config/psi-audit/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the session database (default \"data\")")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("psi-audit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "psi-audit"))
		}
	}

	viper.SetEnvPrefix("PSI_AUDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// PAGESPEED_API_KEY and OPENAI_API_KEY work unprefixed as well.
	_ = viper.BindEnv("scoring.api_key", "PSI_AUDIT_SCORING_API_KEY", "PAGESPEED_API_KEY")
	_ = viper.BindEnv("advice.api_key", "PSI_AUDIT_ADVICE_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
