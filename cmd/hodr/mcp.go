package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/hodr"
	"github.com/aretw0/hodr/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose module functions as MCP tools",
	Long: `Serves the functions declared in the config file as Model Context Protocol
tools named <module>__<function>, plus list_origins and, when a tracker is
configured, recent_executions.

Use --transport stdio for a local agent process, or sse to listen on --port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app, _, res, err := loadApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer res.Close()

		opts := []mcp.Option{mcp.WithLogger(app.Logger())}
		if trackers := app.Trackers(); len(trackers) > 0 {
			opts = append(opts, mcp.WithTracker(trackers[0]))
		}
		srv := mcp.NewServer(app, strings.TrimSpace(hodr.Version), opts...)

		switch transport {
		case "stdio":
			// stdout carries JSON-RPC
			log.SetOutput(os.Stderr)
			app.Logger().Info("Starting hodr MCP Server (Stdio)...", "tools", len(srv.Tools()))
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf(":%d", port)
			err := srv.ServeSSE(ctx, addr, fmt.Sprintf("http://localhost:%d", port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			app.Logger().Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "stdio or sse")
	mcpCmd.Flags().Int("port", 8090, "SSE listen port")
}
