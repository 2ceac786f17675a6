package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/sequent"
	"github.com/aretw0/sequent/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive chat session",
	Long: `Starts the agent loop on the terminal. Type q, quit or exit to leave.
Set ANTHROPIC_API_KEY before running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		s, err := cli.NewSession(cfg, cli.IO{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		_, err = cli.RunSession(ctx, s, cli.RunOptions{Version: sequent.Version, Quiet: quiet})
		cli.ReportSignal(cmd.OutOrStdout(), ctx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("model", "", "Model name (default from config)")
	runCmd.Flags().Int("max-tokens", 0, "Maximum tokens per response")
	runCmd.Flags().Bool("debug", false, "Show response analysis after every reply")
	runCmd.Flags().String("metrics-addr", "", "Serve /health, /info, /metrics, /graph and /events on this address")
	runCmd.Flags().Bool("no-weather", false, "Do not offer the weather forecast tool")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")

	// 'run' is the default command.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
