package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/app"
	"github.com/chainrun/chainrun/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chainrun",
	Short: "A collaborative runner for on-chain operation checklists",
	Long: `Chainrun executes operation checklists: dependency-ordered sequences of
manual confirmations, read-only contract views, and transactions.

Steps become executable once every step they depend on (directly or
transitively) has recorded its result. Results of earlier steps are
available to later ones through ` + "`${step.value}`" + ` templates.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "chainrun.yaml", "config file")
}

// openApp builds the application from the --config flag.
func openApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, os.Stderr)
}
