package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/hodr/internal/presentation/tui"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the health and recent executions of a running server",
	Long: `Queries a running hodr server: its /health endpoint and, when the inspector
is enabled, the most recent tracked executions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("url")
		limit, _ := cmd.Flags().GetInt("limit")
		base = strings.TrimRight(base, "/")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		client := &http.Client{}
		out := cmd.OutOrStdout()

		var health map[string]any
		if err := getJSON(ctx, client, base+"/health", &health); err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}
		fmt.Fprintf(out, "%s: %v\n", base, health["status"])

		var execs []*domain.Execution
		if err := getJSON(ctx, client, base+"/__inspector/api/inputs/executions", &execs); err != nil {
			fmt.Fprintf(out, "executions unavailable: %v\n", err)
			return nil
		}
		if len(execs) > limit {
			execs = execs[len(execs)-limit:]
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tORIGIN\tINPUT\tVARIANT\tSTATE\tDURATION")
		for _, e := range execs {
			var d time.Duration
			if !e.FinishedAt.IsZero() {
				d = e.FinishedAt.Sub(e.StartedAt)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.StartedAt.Format(time.TimeOnly), e.Origin.Name, e.Origin.Input, e.Origin.Variant,
				tui.StateLabel(string(e.State)), d)
		}
		return w.Flush()
	},
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("url", "http://localhost:8080", "Base URL of the server")
	statusCmd.Flags().Int("limit", 20, "Number of executions to show")
}
