package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus marks the direction of a creditor ledger entry.
type EntryStatus string

const (
	StatusCredit  EntryStatus = "credit"
	StatusPayment EntryStatus = "payment"
)

// StatusFor derives the ledger direction from a signed amount:
// inflows are credits, outflows are payments.
func StatusFor(amount decimal.Decimal) EntryStatus {
	if amount.IsPositive() {
		return StatusCredit
	}
	return StatusPayment
}

// Creditor is one open balance line against a supplier, as imported
// from a bank statement or a creditors aging report.
type Creditor struct {
	ID          int64
	SupplierID  int64
	InvoiceDate time.Time
	DueDate     time.Time
	Amount      decimal.Decimal
	AgingDays   int
	Status      EntryStatus
}

// AgingBand buckets a creditor entry by how long it has been open.
type AgingBand int

const (
	AgingCurrent AgingBand = iota // 15 days or fewer
	AgingWatch                    // 16 to 30 days
	AgingOverdue                  // over 30 days
)

// Band returns the aging bucket for the entry.
func (c Creditor) Band() AgingBand {
	switch {
	case c.AgingDays > 30:
		return AgingOverdue
	case c.AgingDays > 15:
		return AgingWatch
	}
	return AgingCurrent
}
