// Package cmd implements the cashplan CLI commands.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/config"
	"github.com/cashplan-dev/cashplan/internal/store"
)

var (
	flagDB string

	cfg config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:               "cashplan",
	Short:             "Supplier cashflow planning CLI",
	Long:              "Track creditor balances, forecast net cash, and derive weekly payment plans.",
	PersistentPreRunE: initRuntime,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database URL or SQLite path (overrides config)")
}

// initRuntime loads configuration and prepares the logger before any
// command runs. Tables go to stdout; structured logs go to stderr.
func initRuntime(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.Database.URL = flagDB
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return nil
}

// openStore connects to the configured database.
func openStore() (*store.Store, error) {
	return store.Open(cfg.Database.URL, log)
}
