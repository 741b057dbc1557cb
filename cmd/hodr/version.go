package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hodr"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hodr",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hodr version %s\n", strings.TrimSpace(hodr.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
