package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the agent state machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newOfflineSession(cmd)
		if err != nil {
			return err
		}
		if err := s.Machine.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %d states, all reachable from %s\n", len(s.Machine.Describe()), s.Machine.Current())
		fmt.Fprintf(out, "✓ model %s, max tokens %d\n", s.Config.Anthropic.Model, s.Config.Anthropic.MaxTokens)
		fmt.Fprintf(out, "✓ tools: %v\n", s.Registry.Names())
		if s.Config.Anthropic.APIKey == "" {
			fmt.Fprintln(out, "! ANTHROPIC_API_KEY is not set")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
