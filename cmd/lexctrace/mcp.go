package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace/pkg/adapters/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp LEXICON",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the lexicon to AI agents as the trace_form, get_graph and
validate_lexicon tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			eng, err := newEngine(cmd.Context(), cfg, logger, args[0])
			if err != nil {
				return err
			}
			srv := mcp.NewServer(eng, logger)

			switch transport {
			case "stdio":
				logger.Info("Starting lexctrace MCP Server (Stdio)")
				return srv.ServeStdio()
			case "sse":
				logger.Info("Starting lexctrace MCP Server (SSE)", "port", port)
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return srv.ServeSSE(ctx, port)
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
