package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sequent/internal/cli"
	"github.com/aretw0/sequent/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the agent state machine as a Mermaid diagram",
	Long: `Prints the agent states and their allowed transitions as a Mermaid diagram (graph TD).
Use --visited and --current to highlight a path, e.g. from a logged run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newOfflineSession(cmd)
		if err != nil {
			return err
		}

		current, _ := cmd.Flags().GetString("current")
		visited, _ := cmd.Flags().GetStringSlice("visited")
		var overlay *graph.Overlay
		if current != "" || len(visited) > 0 {
			overlay = &graph.Overlay{Current: strings.TrimSpace(current), Visited: visited}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(s.Machine.Describe(), overlay))
		return nil
	},
}

// newOfflineSession builds a session that only needs the machine topology and the tool registry.
func newOfflineSession(cmd *cobra.Command) (*cli.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewSession(cfg, cli.IO{
		In:  strings.NewReader(""),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("current", "", "State to highlight as current")
	graphCmd.Flags().StringSlice("visited", nil, "States to highlight as visited (comma separated)")
}
