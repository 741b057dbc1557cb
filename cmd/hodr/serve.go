package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/hodr"
	"github.com/aretw0/hodr/internal/config"
	"github.com/aretw0/hodr/internal/presentation/tui"
	hodrhttp "github.com/aretw0/hodr/pkg/adapters/http"
	"github.com/aretw0/hodr/pkg/observability"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Loads the config file and serves every declared router over HTTP, along
with /health, /info and, when enabled, /metrics and the inspector API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var metrics *observability.Metrics
		app, cfg, res, err := loadApp(cmd.Context(), cmd, func(cfg *config.Config, logger *slog.Logger) []hodr.Option {
			hooks := observability.LoggingHooks(logger)
			if cfg.Server.Metrics {
				metrics = observability.NewMetrics(nil)
				hooks = observability.Combine(hooks, metrics.Hooks())
			}
			return []hodr.Option{hodr.WithLifecycleHooks(hooks)}
		})
		if err != nil {
			return err
		}
		defer res.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cfg.Server.Inspector {
			app.Inspector()
		}

		srv := hodrhttp.NewServer(
			hodrhttp.WithLogger(app.Logger()),
			hodrhttp.WithInfo(map[string]any{
				"appId":   app.ID(),
				"appName": app.Name(),
				"version": strings.TrimSpace(hodr.Version),
			}),
		)
		for _, r := range app.Routers() {
			srv.Mount(r)
		}
		if metrics != nil {
			srv.Handle("/metrics", metrics.Handler())
		}

		httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Handler()}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout, hodr.Version)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			app.Logger().Info("starting hodr server", "addr", httpServer.Addr, "app", app.ID())
			serverErrors <- httpServer.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			app.Logger().Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				app.Logger().Error("graceful shutdown did not complete",
					"timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := httpServer.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			app.Logger().Info("hodr server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
