// Package etl loads bank statement and creditors aging CSV files into
// the store, creating suppliers on first sight and keeping reruns
// idempotent.
package etl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/metrics"
	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

// Ingester runs CSV ingestion against a store.
type Ingester struct {
	store *store.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// New returns an Ingester writing to st.
func New(st *store.Store, log logrus.FieldLogger) *Ingester {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ingester{store: st, log: log, now: time.Now}
}

// Summary reports what an ETL run changed.
type Summary struct {
	BankInserted  int
	BankSkipped   int
	AgingInserted int
	AgingUpdated  int
}

// Run executes the full pipeline: every bank statement, then the aging
// report. Either input may be absent.
func (ing *Ingester) Run(bankPaths []string, agingPath string) (Summary, error) {
	defer metrics.Time(metrics.ETLDuration)()

	var sum Summary
	var err error
	if len(bankPaths) > 0 {
		if sum.BankInserted, sum.BankSkipped, err = ing.IngestBankStatements(bankPaths); err != nil {
			return sum, err
		}
	}
	if agingPath != "" {
		if sum.AgingInserted, sum.AgingUpdated, err = ing.IngestCreditorsAging(agingPath); err != nil {
			return sum, err
		}
	}
	ing.log.WithFields(logrus.Fields{
		"bank_inserted":  sum.BankInserted,
		"bank_skipped":   sum.BankSkipped,
		"aging_inserted": sum.AgingInserted,
		"aging_updated":  sum.AgingUpdated,
	}).Info("etl complete")
	return sum, nil
}

// IngestBankStatements loads credit and payment lines from bank
// statement exports. The date, amount, and supplier (or description)
// columns are located by name; a file without them is skipped with a
// warning. Rows already present for the same supplier, date, and
// amount are not inserted again. Returns inserted and skipped-row
// counts.
func (ing *Ingester) IngestBankStatements(paths []string) (int, int, error) {
	inserted, skipped := 0, 0
	for _, path := range paths {
		n, sk, err := ing.ingestBankFile(path)
		if err != nil {
			return inserted, skipped, err
		}
		inserted += n
		skipped += sk
	}
	return inserted, skipped, nil
}

func (ing *Ingester) ingestBankFile(path string) (int, int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, 0, fmt.Errorf("bank statement %s: %w", path, err)
	}

	dateCol := findColumn(header, "date")
	amountCol := findColumn(header, "amount")
	supplierCol := findColumn(header, "supplier", "description")
	if dateCol < 0 || amountCol < 0 || supplierCol < 0 {
		ing.log.WithField("path", path).Warn("skipping bank statement: required columns missing")
		return 0, 0, nil
	}

	today := model.DateOf(ing.now())
	inserted, skipped := 0, 0
	for i, rec := range rows {
		date, err := parseDate(field(rec, dateCol))
		if err != nil {
			ing.log.WithField("row", i+2).WithError(err).Debug("skipping bank row")
			skipped++
			continue
		}
		amount, err := parseAmount(field(rec, amountCol))
		if err != nil || amount.IsZero() {
			skipped++
			continue
		}
		name := field(rec, supplierCol)
		if name == "" {
			skipped++
			continue
		}

		sup, err := ing.store.GetOrCreateSupplier(name)
		if err != nil {
			return inserted, skipped, err
		}
		exists, err := ing.store.HasCreditor(sup.ID, date, amount)
		if err != nil {
			return inserted, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		c := model.Creditor{
			SupplierID:  sup.ID,
			InvoiceDate: date,
			DueDate:     date,
			Amount:      amount,
			AgingDays:   int(today.Sub(date).Hours() / 24),
			Status:      model.StatusFor(amount),
		}
		if err := ing.store.InsertCreditor(c); err != nil {
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}

// IngestCreditorsAging loads an aging report, updating the aging
// figures of known invoice lines and inserting new ones. Columns are
// matched by name: invoice_date and a supplier (or description) are
// required per row; due_date, amount, aging_days, and status are
// optional. Returns inserted and updated counts.
func (ing *Ingester) IngestCreditorsAging(path string) (int, int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, 0, fmt.Errorf("aging report %s: %w", path, err)
	}

	invoiceCol := findColumn(header, "invoice_date")
	dueCol := findColumn(header, "due_date")
	amountCol := findColumn(header, "amount")
	agingCol := findColumn(header, "aging_days")
	statusCol := findColumn(header, "status")
	supplierCol := findColumn(header, "supplier", "description")

	inserted, updated := 0, 0
	for i, rec := range rows {
		invoiceDate, err := parseDate(field(rec, invoiceCol))
		if err != nil {
			ing.log.WithField("row", i+2).WithError(err).Debug("skipping aging row")
			continue
		}
		name := field(rec, supplierCol)
		if name == "" {
			continue
		}

		dueDate := invoiceDate
		if d, err := parseDate(field(rec, dueCol)); err == nil {
			dueDate = d
		}
		amount := decimal.Zero
		if a, err := parseAmount(field(rec, amountCol)); err == nil {
			amount = a
		}
		agingDays, _ := strconv.Atoi(field(rec, agingCol))
		status := model.EntryStatus(field(rec, statusCol))
		if status == "" {
			status = model.StatusFor(amount)
		}

		sup, err := ing.store.GetOrCreateSupplier(name)
		if err != nil {
			return inserted, updated, err
		}
		created, err := ing.store.UpsertCreditorAging(model.Creditor{
			SupplierID:  sup.ID,
			InvoiceDate: invoiceDate,
			DueDate:     dueDate,
			Amount:      amount,
			AgingDays:   agingDays,
			Status:      status,
		})
		if err != nil {
			return inserted, updated, err
		}
		if created {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}
