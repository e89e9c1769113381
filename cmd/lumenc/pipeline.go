package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sunholo/lumen/internal/config"
	"github.com/sunholo/lumen/internal/moduleenv"
)

func setupLogging(cmd *cobra.Command) *logrus.Entry {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if GetFlag(cmd, "verbose") {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(logger)
}

func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(GetString(cmd, "config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumenc: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// compileModule runs lex -> parse -> canon -> check over the source
// file at path and renders whatever diagnostics it collects. It
// reports ok=false once a Fatal diagnostic has been added, since later
// stages have nothing trustworthy left to build on.
func compileModule(cmd *cobra.Command, path string) (env *moduleenv.ModuleEnv, ok bool) {
	log := setupLogging(cmd)
	cfg := loadConfig(cmd)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumenc: %v\n", err)
		return nil, false
	}

	env = moduleenv.New(path, log)
	env.Parse(src)
	env.Canonicalize()
	env.Check(cfg.LayoutDefaults())

	renderDiagnostics(cmd, env)
	return env, !env.Diagnostics.HasFatal()
}

func renderDiagnostics(cmd *cobra.Command, env *moduleenv.ModuleEnv) {
	reports := env.Diagnostics.All()
	if GetString(cmd, "diagnostics") == "json" {
		for _, r := range reports {
			text, err := r.ToJSON(false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "lumenc: rendering diagnostic: %v\n", err)
				continue
			}
			fmt.Println(text)
		}
		return
	}
	for _, r := range reports {
		fmt.Fprintln(os.Stderr, r.Render())
	}
}
