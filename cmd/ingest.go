package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/etl"
)

var flagIngestAging string

var ingestCmd = &cobra.Command{
	Use:   "ingest [bank-statement.csv ...]",
	Short: "Load bank statement and creditors aging CSV files",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&flagIngestAging, "aging", "", "Creditors aging CSV to ingest")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, args []string) error {
	if len(args) == 0 && flagIngestAging == "" {
		return errors.New("nothing to ingest: pass bank statement files or --aging")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sum, err := etl.New(st, log).Run(args, flagIngestAging)
	if err != nil {
		return err
	}

	fmt.Println()
	if len(args) > 0 {
		fmt.Printf("  Bank statements: %d inserted, %d skipped\n", sum.BankInserted, sum.BankSkipped)
	}
	if flagIngestAging != "" {
		fmt.Printf("  Creditors aging: %d inserted, %d updated\n", sum.AgingInserted, sum.AgingUpdated)
	}
	fmt.Println()
	return nil
}
