package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
	"github.com/cashplan-dev/cashplan/internal/forecast"
	"github.com/cashplan-dev/cashplan/internal/model"
)

var flagForecastHorizon int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run a net cash forecast from creditor history",
	RunE:  runForecast,
}

var forecastShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest stored forecast",
	RunE:  runForecastShow,
}

func init() {
	forecastCmd.PersistentFlags().IntVar(&flagForecastHorizon, "horizon", 0, "Forecast horizon in days (default from config)")
	forecastCmd.AddCommand(forecastShowCmd)
	rootCmd.AddCommand(forecastCmd)
}

// predictor picks the forecasting backend: the configured service when
// one is set, the built-in linear fit otherwise.
func predictor() forecast.Predictor {
	if r := forecast.NewRemote(cfg.Forecast.ServiceURL); r != nil {
		return r
	}
	return nil
}

func forecastHorizon() int {
	if flagForecastHorizon > 0 {
		return flagForecastHorizon
	}
	return cfg.Forecast.HorizonDays
}

func runForecast(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svc := forecast.New(st, predictor(), log)
	run, err := svc.Run(context.Background(), forecastHorizon())
	if errors.Is(err, forecast.ErrNoHistory) {
		fmt.Println("\n  No creditor history to forecast from. Ingest some data first.")
		return nil
	}
	if err != nil {
		return err
	}

	renderForecast(run)
	return nil
}

func runForecastShow(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	run, err := forecast.New(st, nil, log).Latest()
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println("\n  No forecast stored yet. Run `cashplan forecast` first.")
		return nil
	}

	renderForecast(*run)
	return nil
}

func renderForecast(run model.ForecastRun) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("NET CASH FORECAST  %dd horizon", run.HorizonDays)))
	fmt.Println()

	if len(run.Series) == 0 {
		fmt.Println("  The forecast series is empty.")
		return
	}

	values := make([]float64, 0, len(run.Series))
	rows := make([][]string, 0, len(run.Series))
	for _, p := range run.Series {
		values = append(values, p.Predicted.InexactFloat64())
		rows = append(rows, []string{
			cli.FormatDate(p.Date),
			cli.FormatMoney(p.Predicted),
		})
	}

	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Run %d at %s", run.ID, cli.FormatDateTime(run.RunDate)),
		Headers: []string{"Date", "Predicted net"},
		Rows:    rows,
	}))
}
