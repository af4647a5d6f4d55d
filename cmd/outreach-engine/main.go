// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the outreach-engine CLI. The CLI
// wraps the outreach pipeline: draft generation for a single paper
// reference, the research-opportunity feed, and the stored-draft views.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/secrets"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "outreach-engine/0.1"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger carries stage diagnostics; enabled with --verbose.
var logger = zap.NewNop()

// secretDefault returns fallback if set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the outreach-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "outreach-engine",
	Short: "Research-outreach draft generation",
	Long: `outreach-engine turns a paper reference into an outreach draft: it
resolves bibliographic metadata, identifies the principal investigator,
gathers lab context, and asks a generative model for a summary, skill
list, fit analysis, and draft email.

Subcommands: draft (one reference), feed (recent-papers opportunity
feed), drafts (stored drafts), version.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			logger = l
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./outreach-engine.yaml or ~/.config/outreach-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable stage diagnostics on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("outreach-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "outreach-engine"))
		}
	}

	viper.SetEnvPrefix("OUTREACH_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("timeout", 90*time.Second)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("metadata.source_order", []string{"arxiv", "openalex"})
	viper.SetDefault("metadata.max_abstract_chars", 2000)
	viper.SetDefault("scrape.max_candidates", 5)
	viper.SetDefault("scrape.max_context_chars", 1500)
	viper.SetDefault("compose.max_prompt_chars", 8000)
	viper.SetDefault("generation.max_retries", 2)
	viper.SetDefault("generation.max_output_tokens", 2048)
	viper.SetDefault("rate_limit.requests_per_second", 2.0)
	viper.SetDefault("rate_limit.burst", 4)
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("feed.topic", "artificial intelligence")
	viper.SetDefault("feed.domain", "AI & Machine Learning")
	viper.SetDefault("feed.max_papers", 5)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func metadataConfig() types.MetadataConfig {
	return types.MetadataConfig{
		HTTPConfig:       httpConfig(),
		SourceOrder:      viper.GetStringSlice("metadata.source_order"),
		OpenAlexEmail:    secretDefault(secrets.OpenAlexEmail, viper.GetString("metadata.openalex_email")),
		MaxAbstractChars: viper.GetInt("metadata.max_abstract_chars"),
	}
}

func generationConfig() types.GenerationConfig {
	return types.GenerationConfig{
		Model:           viper.GetString("generation.model"),
		APIKey:          secretDefault(secrets.GeminiAPIKey, viper.GetString("generation.api_key")),
		MaxRetries:      viper.GetInt("generation.max_retries"),
		MaxOutputTokens: int32(viper.GetInt("generation.max_output_tokens")),
	}
}

func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Metadata: metadataConfig(),
		Scrape: types.ScrapeConfig{
			HTTPConfig:       httpConfig(),
			MaxCandidates:    viper.GetInt("scrape.max_candidates"),
			MaxPageBytes:     viper.GetInt64("scrape.max_page_bytes"),
			MaxContextChars:  viper.GetInt("scrape.max_context_chars"),
			PreferredDomains: viper.GetStringSlice("scrape.preferred_domains"),
		},
		Compose: types.ComposeConfig{
			MaxPromptChars: viper.GetInt("compose.max_prompt_chars"),
		},
		Generation: generationConfig(),
		RateLimit: types.RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("rate_limit.requests_per_second"),
			Burst:             viper.GetInt("rate_limit.burst"),
		},
		Timeout: viper.GetDuration("timeout"),
	}
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{DataDir: viper.GetString("store.data_dir")}
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
