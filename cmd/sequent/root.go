package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sequent/internal/cli"
	"github.com/aretw0/sequent/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sequent",
	Short: "Sequent is a terminal chat agent driven by a finite-state machine",
	Long: `Sequent runs a conversation with Claude as a small state machine:
prompt, ask the model, run the tools it requests, reply, repeat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Session errors were already shown in the conversation.
		if !errors.Is(err, cli.ErrSessionFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig reads the configuration file and environment, then applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("model") {
		cfg.Anthropic.Model, _ = flags.GetString("model")
	}
	if flags.Changed("max-tokens") {
		cfg.Anthropic.MaxTokens, _ = flags.GetInt("max-tokens")
	}
	if flags.Changed("debug") {
		cfg.Agent.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("metrics-addr") {
		cfg.HTTP.Addr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("no-weather") {
		off, _ := flags.GetBool("no-weather")
		cfg.Weather.Enabled = !off
	}
	return cfg, nil
}
