package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Database]")
	fmt.Printf("    URL: %s\n", cfg.Database.URL)
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Horizon: %d days\n", cfg.Forecast.HorizonDays)
	if cfg.Forecast.ServiceURL != "" {
		fmt.Printf("    Service: %s\n", cfg.Forecast.ServiceURL)
	} else {
		fmt.Println("    Service: built-in linear predictor")
	}
	fmt.Println()

	fmt.Println("  [Plan]")
	fmt.Printf("    Horizon: %d days\n", cfg.Plan.HorizonDays)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.CronSpec)
	if cfg.Daemon.AgingCSV != "" {
		fmt.Printf("    Aging CSV: %s\n", cfg.Daemon.AgingCSV)
	} else {
		fmt.Println("    Aging CSV: not configured (set CREDITORS_AGING_CSV or daemon.aging_csv)")
	}
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Println()

	fmt.Println("  Run `cashplan config init` to write these settings to the config file.")
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", config.ConfigPath())
	return nil
}
