package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// CreditorRow is a creditor entry joined with its supplier's name for
// display.
type CreditorRow struct {
	model.Creditor
	SupplierName string
}

// HasCreditor reports whether an identical ledger line already exists
// for the supplier, keyed on invoice date and amount.
func (s *Store) HasCreditor(supplierID int64, invoiceDate time.Time, amount decimal.Decimal) (bool, error) {
	var n int
	err := s.db.QueryRow(
		s.rebind("SELECT COUNT(*) FROM creditors WHERE supplier_id = ? AND invoice_date = ? AND amount = ?"),
		supplierID, invoiceDate.Format(model.DateLayout), amount.String(),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertCreditor stores one ledger line.
func (s *Store) InsertCreditor(c model.Creditor) error {
	var due any
	if !c.DueDate.IsZero() {
		due = c.DueDate.Format(model.DateLayout)
	}
	_, err := s.db.Exec(
		s.rebind(`INSERT INTO creditors (supplier_id, invoice_date, due_date, amount, aging_days, status)
			VALUES (?, ?, ?, ?, ?, ?)`),
		c.SupplierID, c.InvoiceDate.Format(model.DateLayout), due,
		c.Amount.String(), c.AgingDays, string(c.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting creditor: %w", err)
	}
	return nil
}

// UpsertCreditorAging refreshes the line keyed on supplier and invoice
// date with the latest aging report figures, inserting the line when
// it is new. It reports whether a row was created.
func (s *Store) UpsertCreditorAging(c model.Creditor) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		s.rebind("SELECT id FROM creditors WHERE supplier_id = ? AND invoice_date = ?"),
		c.SupplierID, c.InvoiceDate.Format(model.DateLayout),
	).Scan(&id)
	switch {
	case err == nil:
		var due any
		if !c.DueDate.IsZero() {
			due = c.DueDate.Format(model.DateLayout)
		}
		_, err = s.db.Exec(
			s.rebind("UPDATE creditors SET due_date = ?, amount = ?, aging_days = ?, status = ? WHERE id = ?"),
			due, c.Amount.String(), c.AgingDays, string(c.Status), id,
		)
		if err != nil {
			return false, fmt.Errorf("updating aging: %w", err)
		}
		return false, nil
	case errors.Is(err, sql.ErrNoRows):
		if err := s.InsertCreditor(c); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// ListCreditors returns every ledger line with its supplier name,
// newest invoices first.
func (s *Store) ListCreditors() ([]CreditorRow, error) {
	rows, err := s.db.Query(`SELECT
		c.id, c.supplier_id, c.invoice_date, c.due_date, c.amount, c.aging_days, c.status, s.name
		FROM creditors c JOIN suppliers s ON s.id = c.supplier_id
		ORDER BY c.invoice_date DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CreditorRow
	for rows.Next() {
		var (
			r           CreditorRow
			invoice     string
			due, status sql.NullString
			amount      string
		)
		if err := rows.Scan(&r.ID, &r.SupplierID, &invoice, &due, &amount, &r.AgingDays, &status, &r.SupplierName); err != nil {
			return nil, err
		}
		if r.InvoiceDate, err = model.ParseDate(invoice); err != nil {
			return nil, fmt.Errorf("creditor %d: %w", r.ID, err)
		}
		if due.Valid && due.String != "" {
			if r.DueDate, err = model.ParseDate(due.String); err != nil {
				return nil, fmt.Errorf("creditor %d: %w", r.ID, err)
			}
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("creditor %d: %w", r.ID, err)
		}
		if status.Valid {
			r.Status = model.EntryStatus(status.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// HistoricalNetCash computes daily net cash, credits minus payments,
// grouped by invoice date and returned in ascending date order.
// Amounts contribute by magnitude under their status, so a payment
// reduces net cash whether it was recorded as -320.50 from a bank
// statement or as 320.50 from an aging report. Rows with unparseable
// dates or amounts are skipped and counted.
func (s *Store) HistoricalNetCash() ([]model.NetCashDay, int, error) {
	rows, err := s.db.Query("SELECT invoice_date, amount, status FROM creditors")
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	nets := make(map[time.Time]decimal.Decimal)
	skipped := 0
	for rows.Next() {
		var dateStr, amountStr, status string
		if err := rows.Scan(&dateStr, &amountStr, &status); err != nil {
			return nil, 0, err
		}
		d, err := model.ParseDate(dateStr)
		if err != nil {
			skipped++
			continue
		}
		amt, err := decimal.NewFromString(amountStr)
		if err != nil {
			skipped++
			continue
		}
		contribution := amt.Abs()
		if model.EntryStatus(status) == model.StatusPayment {
			contribution = contribution.Neg()
		}
		nets[d] = nets[d].Add(contribution)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	out := make([]model.NetCashDay, 0, len(nets))
	for d, net := range nets {
		out = append(out, model.NetCashDay{Date: d, Net: net})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, skipped, nil
}
