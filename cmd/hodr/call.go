package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/hodr/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var callCmd = &cobra.Command{
	Use:   "call <module> <function> [json-argument]",
	Short: "Invoke a declared function",
	Long: `Runs a function declared in the config file and prints its result as JSON.
With --journal the whole execution is rendered instead: every step, its state
and its journal entries.`,
	Args: cobra.RangeArgs(2, 3),
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

		exec, runErr := fn.Execute(cmd.Context(), arg)
		out := cmd.OutOrStdout()

		if journal, _ := cmd.Flags().GetBool("journal"); journal {
			plain := !term.IsTerminal(int(os.Stdout.Fd()))
			rendered, err := tui.NewRenderer(plain)(tui.ExecutionMarkdown(exec.Snapshot()))
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return runErr
		}

		if runErr != nil {
			return runErr
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(exec.Payload())
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().Bool("journal", false, "Render the execution journal instead of the result")
}
