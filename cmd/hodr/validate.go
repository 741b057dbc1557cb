package main

import (
	"fmt"

	"github.com/aretw0/hodr/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for consistency",
	Long: `Decodes the config file and checks destinations, step kinds, expressions
and status patterns, then builds every lane to catch steps that do not fit
the payload they receive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, res, err := loadApp(cmd.Context(), cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer res.Close()

		out := cmd.OutOrStdout()
		for _, o := range app.Origins() {
			fmt.Fprintf(out, "%s %s: %d inputs\n", o.Type(), o.Name(), len(o.Inputs()))
		}
		fmt.Fprintf(out, "%d destinations, tracker %s\n", len(cfg.Destinations), trackerLabel(cfg.Tracker))
		fmt.Fprintln(out, "Config is valid! ✅")
		return nil
	},
}

func trackerLabel(t config.TrackerConfig) string {
	if t.Type == "redis" {
		return fmt.Sprintf("redis (%s, limit %d)", t.Addr, t.Limit)
	}
	return fmt.Sprintf("memory (limit %d)", t.Limit)
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
