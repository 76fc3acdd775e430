package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// draftMatch selects plan rows whose note marks them as drafts,
// matching the marker the plan engine writes into every note.
const draftMatch = "lower(note) LIKE '%draft%'"

// ReplaceDraftPlans deletes all stored draft entries and inserts the
// given batch in one transaction, so re-running a plan never
// accumulates stale drafts and a failure leaves the prior draft set
// intact. Entries that fail validation are skipped and logged. Returns
// the number of entries inserted.
func (s *Store) ReplaceDraftPlans(entries []model.PlanEntry) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM payment_plans WHERE " + draftMatch); err != nil {
		return 0, fmt.Errorf("clearing draft plans: %w", err)
	}

	inserted := 0
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			s.log.WithError(err).WithField("note", e.Note).Warn("skipping invalid plan entry")
			continue
		}
		var creditorID any
		if e.CreditorID != nil {
			creditorID = *e.CreditorID
		}
		_, err := tx.Exec(
			s.rebind("INSERT INTO payment_plans (creditor_id, scheduled_date, amount, note) VALUES (?, ?, ?, ?)"),
			creditorID, e.ScheduledDate.Format(model.DateLayout), e.Amount.String(), e.Note,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting plan entry for %s: %w", e.ScheduledDate.Format(model.DateLayout), err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing draft plan: %w", err)
	}
	return inserted, nil
}

// ListDraftPlans returns the stored draft entries in schedule order.
func (s *Store) ListDraftPlans() ([]model.PlanEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, creditor_id, scheduled_date, amount, note FROM payment_plans WHERE " +
			draftMatch + " ORDER BY scheduled_date, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.PlanEntry
	for rows.Next() {
		var (
			e          model.PlanEntry
			creditorID sql.NullInt64
			scheduled  string
			amount     string
			note       sql.NullString
		)
		if err := rows.Scan(&e.ID, &creditorID, &scheduled, &amount, &note); err != nil {
			return nil, err
		}
		if creditorID.Valid {
			id := creditorID.Int64
			e.CreditorID = &id
		}
		if e.ScheduledDate, err = model.ParseDate(scheduled); err != nil {
			return nil, fmt.Errorf("plan entry %d: %w", e.ID, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("plan entry %d: %w", e.ID, err)
		}
		e.Note = note.String
		out = append(out, e)
	}
	return out, rows.Err()
}
