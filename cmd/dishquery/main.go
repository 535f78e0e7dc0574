package main

import (
	"os"

	"github.com/spf13/cobra"

	"dishquery/internal/config"
)

var globals struct {
	configPath string
	logLevel   string
	envFile    string
}

func main() {
	root := &cobra.Command{
		Use:          "dishquery",
		Short:        "Answer dish questions with lookup tools over precomputed mappings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(os.Stderr, globals.logLevel); err != nil {
				return err
			}
			return config.LoadEnv(globals.envFile)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&globals.configPath, "config", "dishquery.yaml", "Project config file")
	root.PersistentFlags().StringVar(&globals.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&globals.envFile, "env-file", ".env", "Dotenv file with credentials, skipped when missing")

	root.AddCommand(serveCmd())
	root.AddCommand(askCmd())
	root.AddCommand(evaluateCmd())
	root.AddCommand(runsCmd())
	root.AddCommand(toolCmd())
	root.AddCommand(buildCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
