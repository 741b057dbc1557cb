package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/hodr/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <module> <function> [json-argument]",
	Short: "Export an execution as a Mermaid diagram",
	Long:  `Invokes a function and outputs a Mermaid diagram (graph TD) of the steps it went through.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, res, err := loadApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer res.Close()

		fn, ok := app.FunctionInput(args[0], args[1])
		if !ok {
			return fmt.Errorf("no function %s in module %s", args[1], args[0])
		}
		var arg any
		if len(args) == 3 {
			if err := json.Unmarshal([]byte(args[2]), &arg); err != nil {
				return fmt.Errorf("argument is not valid JSON: %w", err)
			}
		}

		// A failed run still has a journal worth drawing.
		exec, _ := fn.Execute(cmd.Context(), arg)
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(exec.Snapshot()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
