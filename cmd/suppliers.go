package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
	"github.com/cashplan-dev/cashplan/internal/model"
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List suppliers and their payment terms",
	RunE:  runSuppliers,
}

var suppliersSetCmd = &cobra.Command{
	Use:   "set <name> <core|flex> <max-delay-days>",
	Short: "Set a supplier's type and maximum payment delay",
	Args:  cobra.ExactArgs(3),
	RunE:  runSuppliersSet,
}

func init() {
	suppliersCmd.AddCommand(suppliersSetCmd)
	rootCmd.AddCommand(suppliersCmd)
}

func runSuppliers(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	suppliers, err := st.ListSuppliers()
	if err != nil {
		return err
	}
	if len(suppliers) == 0 {
		fmt.Println("\n  No suppliers yet. Ingest some data first.")
		return nil
	}

	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{
			s.Name,
			string(s.Type),
			strconv.Itoa(s.MaxDelayDays),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Suppliers (%d)", len(suppliers)),
		Headers: []string{"Name", "Type", "Max delay (days)"},
		Rows:    rows,
	}))
	return nil
}

func runSuppliersSet(_ *cobra.Command, args []string) error {
	typ, err := model.ParseSupplierType(args[1])
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(args[2])
	if err != nil || days < 0 {
		return fmt.Errorf("invalid max delay %q", args[2])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	found, err := st.UpdateSupplierTerms(args[0], typ, days)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no supplier named %q", args[0])
	}

	fmt.Printf("  Updated %s: type=%s, max delay %d days\n", args[0], typ, days)
	return nil
}
