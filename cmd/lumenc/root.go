package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled in when building with make; "go install" leaves
// it at its zero value and the --version handler falls back to build
// info instead.
var Version string

var rootCmd = &cobra.Command{
	Use:   "lumenc",
	Short: "A compiler for the lumen language.",
	Long:  "lumenc lexes, canonicalizes, type-checks, lays out, and evaluates lumen modules.",
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			cmd.Help()
			return
		}
		fmt.Print("lumenc ")
		if Version != "" {
			fmt.Print(Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Print(info.Main.Version)
		} else {
			fmt.Print("(unknown version)")
		}
		fmt.Println()
	},
}

// Execute runs rootCmd; each subcommand registers itself with rootCmd
// in its own file's init(). Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "print version information")
	rootCmd.PersistentFlags().StringP("config", "c", "lumen.yaml", "path to the compiler configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().String("diagnostics", "text", "diagnostic rendering: text or json")
}
