package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Lex, canonicalize, and type-check a lumen module without evaluating it.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, ok := compileModule(cmd, args[0])
		if !ok || env.Diagnostics.HasErrors() {
			os.Exit(1)
		}
		fmt.Printf("%s: ok (%d top-level bindings)\n", args[0], len(env.CIR.TopLevel))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
