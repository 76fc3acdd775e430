package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreditorRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.GetOrCreateSupplier("Acme Metals")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	c := model.Creditor{
		SupplierID:  sup.ID,
		InvoiceDate: mustDate(t, "2023-04-03"),
		DueDate:     mustDate(t, "2023-05-03"),
		Amount:      dec("-1250.75"),
		AgingDays:   12,
		Status:      model.StatusPayment,
	}
	if err := s.InsertCreditor(c); err != nil {
		t.Fatalf("insert creditor: %v", err)
	}

	ok, err := s.HasCreditor(sup.ID, c.InvoiceDate, c.Amount)
	if err != nil {
		t.Fatalf("has creditor: %v", err)
	}
	if !ok {
		t.Fatal("inserted creditor not found by (supplier, date, amount)")
	}
	ok, err = s.HasCreditor(sup.ID, c.InvoiceDate, dec("-1250.74"))
	if err != nil {
		t.Fatalf("has creditor: %v", err)
	}
	if ok {
		t.Fatal("lookup matched a different amount")
	}

	rows, err := s.ListCreditors()
	if err != nil {
		t.Fatalf("list creditors: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("creditor count = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.SupplierName != "Acme Metals" {
		t.Errorf("supplier name = %q, want Acme Metals", got.SupplierName)
	}
	if !got.Amount.Equal(c.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, c.Amount)
	}
	if !got.InvoiceDate.Equal(c.InvoiceDate) || !got.DueDate.Equal(c.DueDate) {
		t.Errorf("dates = %v/%v, want %v/%v", got.InvoiceDate, got.DueDate, c.InvoiceDate, c.DueDate)
	}
	if got.Status != model.StatusPayment || got.AgingDays != 12 {
		t.Errorf("status/aging = %s/%d, want payment/12", got.Status, got.AgingDays)
	}
}

func TestUpsertCreditorAging(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.GetOrCreateSupplier("Beta Freight")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	c := model.Creditor{
		SupplierID:  sup.ID,
		InvoiceDate: mustDate(t, "2023-04-10"),
		Amount:      dec("600.00"),
		AgingDays:   5,
		Status:      model.StatusCredit,
	}
	created, err := s.UpsertCreditorAging(c)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert did not create a row")
	}

	c.AgingDays = 35
	c.Amount = dec("580.00")
	created, err = s.UpsertCreditorAging(c)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert created a duplicate row")
	}

	rows, err := s.ListCreditors()
	if err != nil {
		t.Fatalf("list creditors: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("creditor count = %d, want 1", len(rows))
	}
	if rows[0].AgingDays != 35 || !rows[0].Amount.Equal(dec("580.00")) {
		t.Fatalf("after upsert aging/amount = %d/%s, want 35/580.00", rows[0].AgingDays, rows[0].Amount)
	}
}

func TestHistoricalNetCash(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.GetOrCreateSupplier("Acme Metals")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	lines := []struct {
		date   string
		amount string
		status model.EntryStatus
	}{
		{"2023-04-04", "-40", model.StatusPayment},
		{"2023-04-03", "100", model.StatusCredit},
		{"2023-04-03", "-25.50", model.StatusPayment},
		{"2023-04-05", "10", model.StatusCredit},
		// Aging reports record payments as positive magnitudes.
		{"2023-04-04", "15", model.StatusPayment},
	}
	for _, l := range lines {
		c := model.Creditor{
			SupplierID:  sup.ID,
			InvoiceDate: mustDate(t, l.date),
			Amount:      dec(l.amount),
			Status:      l.status,
		}
		if err := s.InsertCreditor(c); err != nil {
			t.Fatalf("insert %s: %v", l.date, err)
		}
	}

	days, skipped, err := s.HistoricalNetCash()
	if err != nil {
		t.Fatalf("historical net cash: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(days) != 3 {
		t.Fatalf("day count = %d, want 3", len(days))
	}
	wantDates := []string{"2023-04-03", "2023-04-04", "2023-04-05"}
	wantNets := []string{"74.50", "-55", "10"}
	for i, day := range days {
		if got := day.Date.Format(model.DateLayout); got != wantDates[i] {
			t.Errorf("day %d = %s, want %s", i, got, wantDates[i])
		}
		if !day.Net.Equal(dec(wantNets[i])) {
			t.Errorf("day %d net = %s, want %s", i, day.Net, wantNets[i])
		}
	}
}
