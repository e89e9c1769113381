package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/interp"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Type-check and evaluate a lumen module, printing each top-level binding.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, ok := compileModule(cmd, args[0])
		if !ok {
			os.Exit(1)
		}

		ip := env.NewInterp(interp.DefaultLimits(), nil)
		crashes, err := ip.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lumenc: %v\n", err)
			os.Exit(1)
		}
		for _, f := range crashes {
			fmt.Fprintf(os.Stderr, "lumenc: %s\n", f.Error())
		}

		for _, defIdx := range env.CIR.TopLevel {
			def := env.CIR.Def(defIdx)
			bound, ok := env.CIR.Pattern(def.Pattern).(*cir.IdentPattern)
			if !ok {
				continue
			}
			value, ok := ip.GlobalString(def.Pattern)
			if !ok {
				continue
			}
			fmt.Printf("%s = %s\n", env.Idents.Text(bound.Name), value)
		}

		if len(crashes) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
