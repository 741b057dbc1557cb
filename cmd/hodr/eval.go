package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/hodr/pkg/expr"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression against a JSON input",
	Long: `Compiles an expression the way extract and expect steps do and evaluates it
against --input, with --bindings as the named atoms. --trace lists every
operation the evaluation performed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eval, err := expr.ParseAndCompile(args[0])
		if err != nil {
			return err
		}

		var input any
		if raw, _ := cmd.Flags().GetString("input"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input); err != nil {
				return fmt.Errorf("input is not valid JSON: %w", err)
			}
		}
		var bindings map[string]any
		if raw, _ := cmd.Flags().GetString("bindings"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &bindings); err != nil {
				return fmt.Errorf("bindings are not a JSON object: %w", err)
			}
		}

		var ops []expr.Operation
		result := eval(input, bindings, func(op expr.Operation) { ops = append(ops, op) })

		out := cmd.OutOrStdout()
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tOPERATION\tRESULT")
			for _, op := range ops {
				fmt.Fprintf(w, "%s\t%s\t%v\n", op.Type, op.Desc, op.Result)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("input", "i", "", "JSON value the expression reads")
	evalCmd.Flags().StringP("bindings", "b", "", "JSON object of named bindings")
	evalCmd.Flags().Bool("trace", false, "Print every evaluated operation")
}
