package store

import (
	"testing"

	"github.com/cashplan-dev/cashplan/internal/model"
)

func draftEntry(t *testing.T, date, amount string) model.PlanEntry {
	t.Helper()
	return model.PlanEntry{
		ScheduledDate: mustDate(t, date),
		Amount:        dec(amount),
		Note:          "Auto-generated draft; covers deficit: false",
	}
}

func TestReplaceDraftPlansIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	first := []model.PlanEntry{
		draftEntry(t, "2023-01-02", "35.00"),
		draftEntry(t, "2023-01-09", "35.00"),
		draftEntry(t, "2023-01-16", "35.00"),
	}
	n, err := s.ReplaceDraftPlans(first)
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if n != 3 {
		t.Fatalf("first replace inserted %d, want 3", n)
	}

	second := []model.PlanEntry{
		draftEntry(t, "2023-02-06", "52.69"),
		draftEntry(t, "2023-02-13", "52.69"),
	}
	n, err = s.ReplaceDraftPlans(second)
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("second replace inserted %d, want 2", n)
	}

	stored, err := s.ListDraftPlans()
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored drafts = %d, want only the second batch", len(stored))
	}
	if got := stored[0].ScheduledDate.Format(model.DateLayout); got != "2023-02-06" {
		t.Errorf("first stored entry = %s, want 2023-02-06", got)
	}
	if !stored[1].Amount.Equal(dec("52.69")) {
		t.Errorf("stored amount = %s, want 52.69", stored[1].Amount)
	}
}

func TestReplaceDraftPlansKeepsNonDrafts(t *testing.T) {
	s := newTestStore(t)

	approved := model.PlanEntry{
		ScheduledDate: mustDate(t, "2023-01-02"),
		Amount:        dec("900.00"),
		Note:          "approved by finance",
	}
	if _, err := s.ReplaceDraftPlans([]model.PlanEntry{approved, draftEntry(t, "2023-01-09", "10.00")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := s.ReplaceDraftPlans([]model.PlanEntry{draftEntry(t, "2023-03-06", "20.00")}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	drafts, err := s.ListDraftPlans()
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ScheduledDate.Format(model.DateLayout) != "2023-03-06" {
		t.Fatalf("drafts = %+v, want only the new draft", drafts)
	}

	totals, err := s.CountTotals()
	if err != nil {
		t.Fatalf("count totals: %v", err)
	}
	if totals.PlanEntries != 2 {
		t.Fatalf("plan rows = %d, want approved row plus one draft", totals.PlanEntries)
	}
}

func TestReplaceDraftPlansSkipsInvalidEntries(t *testing.T) {
	s := newTestStore(t)

	batch := []model.PlanEntry{
		draftEntry(t, "2023-01-02", "35.00"),
		{Note: "Auto-generated draft; covers deficit: false"}, // no date, no amount
		draftEntry(t, "2023-01-09", "35.00"),
	}
	n, err := s.ReplaceDraftPlans(batch)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2 with the invalid entry skipped", n)
	}

	stored, err := s.ListDraftPlans()
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored drafts = %d, want 2", len(stored))
	}
}

func TestReplaceDraftPlansEmptyBatchClearsDrafts(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ReplaceDraftPlans([]model.PlanEntry{draftEntry(t, "2023-01-02", "35.00")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := s.ReplaceDraftPlans(nil)
	if err != nil {
		t.Fatalf("replace with empty batch: %v", err)
	}
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
	stored, err := s.ListDraftPlans()
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("stored drafts = %d, want 0", len(stored))
	}
}

func TestListDraftPlansCreditorLink(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.GetOrCreateSupplier("Acme Metals")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	c := model.Creditor{
		SupplierID:  sup.ID,
		InvoiceDate: mustDate(t, "2023-01-02"),
		Amount:      dec("-100"),
		Status:      model.StatusPayment,
	}
	if err := s.InsertCreditor(c); err != nil {
		t.Fatalf("insert creditor: %v", err)
	}
	rows, err := s.ListCreditors()
	if err != nil || len(rows) != 1 {
		t.Fatalf("list creditors = %v, %v", rows, err)
	}

	linked := draftEntry(t, "2023-01-02", "100.00")
	linked.CreditorID = &rows[0].ID
	if _, err := s.ReplaceDraftPlans([]model.PlanEntry{linked, draftEntry(t, "2023-01-09", "10.00")}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	stored, err := s.ListDraftPlans()
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if stored[0].CreditorID == nil || *stored[0].CreditorID != rows[0].ID {
		t.Errorf("first entry creditor = %v, want %d", stored[0].CreditorID, rows[0].ID)
	}
	if stored[1].CreditorID != nil {
		t.Errorf("second entry creditor = %d, want nil", *stored[1].CreditorID)
	}
}
