package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sequent"
	"github.com/aretw0/sequent/internal/cli"
	"github.com/aretw0/sequent/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the agent tools over the Model Context Protocol (MCP)",
	Long: `Exposes the registered tools (and the agent state graph) as an MCP server,
so other MCP clients can call them.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newOfflineSession(cmd)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(s.Registry, sequent.Version,
			mcp.WithGraph(s.Machine.Describe),
			mcp.WithLogger(s.Logger),
		)

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			// Keep JSON-RPC on Stdout clean.
			log.SetOutput(os.Stderr)
			s.Logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			addr, _ := cmd.Flags().GetString("addr")
			baseURL, _ := cmd.Flags().GetString("base-url")
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil {
				return err
			}
			s.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8080", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL advertised to SSE clients")
}
