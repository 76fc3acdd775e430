package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/payment"
)

var flagPlanHorizon int

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Derive a draft weekly payment plan from the latest forecast",
	RunE:  runPlan,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored draft plan",
	RunE:  runPlanShow,
}

var planExportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Export the stored draft plan as CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanExport,
}

func init() {
	planCmd.PersistentFlags().IntVar(&flagPlanHorizon, "horizon", 0, "Plan horizon in days (default from config)")
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planExportCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	horizon := flagPlanHorizon
	if horizon <= 0 {
		horizon = cfg.Plan.HorizonDays
	}

	entries, inserted, err := payment.NewPlanner(st, log).Run(horizon)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No plan derived: run `cashplan forecast` first.")
		return nil
	}

	fmt.Println()
	fmt.Printf("  Stored %d draft entries, replacing any previous draft.\n", inserted)
	renderPlan(entries)
	return nil
}

func runPlanShow(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	entries, err := st.ListDraftPlans()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No draft plan stored. Run `cashplan plan` to derive one.")
		return nil
	}

	fmt.Println()
	renderPlan(entries)
	return nil
}

func runPlanExport(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	entries, err := st.ListDraftPlans()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No draft plan to export. Run `cashplan plan` first.")
		return nil
	}

	var out io.Writer = os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"scheduled_date", "amount", "note"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.ScheduledDate.Format(model.DateLayout),
			e.Amount.StringFixed(2),
			e.Note,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if len(args) == 1 {
		fmt.Printf("  Exported %d entries to %s\n", len(entries), args[0])
	}
	return nil
}

func renderPlan(entries []model.PlanEntry) {
	fmt.Println(cli.RenderTitle("DRAFT PAYMENT PLAN"))
	fmt.Println()

	total := decimal.Zero
	rows := make([][]string, 0, len(entries)+2)
	for _, e := range entries {
		total = total.Add(e.Amount)
		rows = append(rows, []string{
			cli.FormatDate(e.ScheduledDate),
			cli.FormatMoney(e.Amount),
			e.Note,
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatMoney(total), ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week of", "Amount", "Note"},
		Rows:    rows,
	}))
}
