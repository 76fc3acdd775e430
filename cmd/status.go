package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
	"github.com/cashplan-dev/cashplan/internal/forecast"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Overview of stored data and the latest forecast",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	totals, err := st.CountTotals()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHPLAN STATUS"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Table", "Rows"},
		Rows: [][]string{
			{"Suppliers", cli.FormatNumber(int64(totals.Suppliers))},
			{"Creditor entries", cli.FormatNumber(int64(totals.Creditors))},
			{"Rule changes", cli.FormatNumber(int64(totals.Rules))},
			{"Forecast runs", cli.FormatNumber(int64(totals.Forecasts))},
			{"Plan entries", cli.FormatNumber(int64(totals.PlanEntries))},
		},
	}))
	fmt.Println()

	run, err := forecast.New(st, nil, log).Latest()
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println("  No forecast yet. Run `cashplan forecast` after ingesting data.")
	} else {
		fmt.Printf("  Latest forecast: run %d at %s (%d points, %dd horizon)\n",
			run.ID, cli.FormatDateTime(run.RunDate), len(run.Series), run.HorizonDays)
	}

	entries, err := st.ListDraftPlans()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("  No draft payment plan stored. Run `cashplan plan` to derive one.")
	} else {
		total := decimal.Zero
		for _, e := range entries {
			total = total.Add(e.Amount)
		}
		fmt.Printf("  Draft plan: %d weekly payments totaling %s, starting %s\n",
			len(entries), cli.FormatMoney(total), cli.FormatDate(entries[0].ScheduledDate))
	}
	fmt.Println()

	return nil
}
