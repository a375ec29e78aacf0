// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the artist-resolver CLI.
// It resolves free-text search terms to canonical Genius artists,
// singly or in batches, and keeps an optional local history of runs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/artist-resolver/internal/genius"
	"github.com/pdiddy/artist-resolver/internal/secrets"
	"github.com/pdiddy/artist-resolver/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// tokenEnvVars lists the environment variables checked for the access
// token, in precedence order.
var tokenEnvVars = []string{"GENIUS_ACCESS_TOKEN", "ACCESS_TOKEN"}

// rootCmd is the base command for the artist-resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "artist-resolver",
	Short: "Resolve search terms to Genius artists",
	Long: `artist-resolver looks up artists on the Genius API. A free-text search
term is matched against the search endpoint, the top hit's primary artist
is fetched, and the result is reported as a fixed-shape record: name,
Genius id, and follower count.

Use resolve for a single term, batch for a list of terms, and history to
query previously recorded runs.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./artist-resolver.yaml or ~/.config/artist-resolver/config.yaml)")
	rootCmd.PersistentFlags().String("token", "", "Genius API access token (overrides config, secrets, and environment)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("artist-resolver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "artist-resolver"))
		}
	}

	viper.SetEnvPrefix("ARTIST_RESOLVER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolveToken picks the access token at the composition root so the
// client itself never reads the environment. Precedence: --token flag,
// config file, .secrets/ file, environment.
func resolveToken(cmd *cobra.Command) (string, error) {
	if tok, _ := cmd.Flags().GetString("token"); tok != "" {
		return tok, nil
	}
	if tok := viper.GetString("resolve.access_token"); tok != "" {
		return tok, nil
	}
	if tok := loadedSecrets[secrets.TokenKey]; tok != "" {
		return tok, nil
	}
	for _, env := range tokenEnvVars {
		if tok := os.Getenv(env); tok != "" {
			return tok, nil
		}
	}
	return "", fmt.Errorf("%w: set --token, resolve.access_token in the config, .secrets/%s, or $%s",
		genius.ErrMissingToken, secrets.TokenKey, tokenEnvVars[0])
}

// resolveConfig assembles resolution settings from the config file with
// per-command flag overrides.
func resolveConfig(cmd *cobra.Command) types.ResolveConfig {
	cfg := types.ResolveConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("resolve.timeout"),
			UserAgent: viper.GetString("resolve.user_agent"),
		},
		PerPage:    viper.GetInt("resolve.per_page"),
		MaxRetries: viper.GetInt("resolve.max_retries"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "artist-resolver/" + version
	}
	if v, err := cmd.Flags().GetInt("per-page"); err == nil && v > 0 {
		cfg.PerPage = v
	}
	if v, err := cmd.Flags().GetInt("max-retries"); err == nil && v > 0 {
		cfg.MaxRetries = v
	}
	return cfg
}

// historyConfig assembles history store settings.
func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	cfg := types.HistoryConfig{
		HistoryDir: viper.GetString("history.history_dir"),
		MaxResults: viper.GetInt("history.max_results"),
	}
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = "history"
	}
	if v, err := cmd.Flags().GetInt("max-results"); err == nil && v > 0 {
		cfg.MaxResults = v
	}
	return cfg
}

// newClient builds the API client for a command.
func newClient(cmd *cobra.Command) (*genius.Client, types.ResolveConfig, error) {
	token, err := resolveToken(cmd)
	if err != nil {
		return nil, types.ResolveConfig{}, err
	}
	cfg := resolveConfig(cmd)
	client, err := genius.NewClient(token, cfg, nil)
	if err != nil {
		return nil, types.ResolveConfig{}, err
	}
	return client, cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
