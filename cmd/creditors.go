package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
)

var flagCreditorsLimit int

var creditorsCmd = &cobra.Command{
	Use:   "creditors",
	Short: "Aging table of creditor entries",
	RunE:  runCreditors,
}

func init() {
	creditorsCmd.Flags().IntVar(&flagCreditorsLimit, "limit", 50, "Max rows to show (0 for all)")
	rootCmd.AddCommand(creditorsCmd)
}

func runCreditors(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	creditors, err := st.ListCreditors()
	if err != nil {
		return err
	}
	if len(creditors) == 0 {
		fmt.Println("\n  No creditor entries yet. Ingest some data first.")
		return nil
	}

	shown := creditors
	if flagCreditorsLimit > 0 && len(shown) > flagCreditorsLimit {
		shown = shown[:flagCreditorsLimit]
	}

	rows := make([][]string, 0, len(shown))
	styles := make([]lipgloss.Style, 0, len(shown))
	for _, c := range shown {
		rows = append(rows, []string{
			c.SupplierName,
			cli.FormatDate(c.InvoiceDate),
			cli.FormatDate(c.DueDate),
			cli.FormatMoney(c.Amount),
			cli.FormatAgingDays(c.AgingDays),
			string(c.Status),
		})
		styles = append(styles, cli.AgingBandStyle(c.AgingDays))
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     fmt.Sprintf("Creditors aging (%d of %d)", len(shown), len(creditors)),
		Headers:   []string{"Supplier", "Invoice", "Due", "Amount", "Aging", "Status"},
		Rows:      rows,
		RowStyles: styles,
	}))
	return nil
}
