package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PlanEntry is one scheduled payment in a weekly plan. Draft entries
// carry the word "draft" in their note; CreditorID stays nil until a
// draft is reconciled against a concrete creditor entry.
type PlanEntry struct {
	ID            int64
	CreditorID    *int64
	ScheduledDate time.Time
	Amount        decimal.Decimal
	Note          string
}

// Validate reports whether the entry is persistable.
func (e PlanEntry) Validate() error {
	if e.ScheduledDate.IsZero() {
		return errors.New("plan entry has no scheduled date")
	}
	if !e.Amount.IsPositive() {
		return errors.New("plan entry amount must be positive")
	}
	return nil
}
