package rules

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text    string
		want    Command
		wantErr bool
	}{
		{
			text: "Acme Metals: flex delay 10 days",
			want: Command{Supplier: "Acme Metals", Type: model.SupplierFlex, MaxDelayDays: 10},
		},
		{
			text: "  BETA FREIGHT:   CORE   DELAY   5   DAYS  ",
			want: Command{Supplier: "BETA FREIGHT", Type: model.SupplierCore, MaxDelayDays: 5},
		},
		{
			text: "Gamma Tools GmbH: Flex delay 0 days",
			want: Command{Supplier: "Gamma Tools GmbH", Type: model.SupplierFlex, MaxDelayDays: 0},
		},
		{text: "no colon here flex delay 10 days", wantErr: true},
		{text: "Acme: flexible delay 10 days", wantErr: true},
		{text: "Acme: flex delay ten days", wantErr: true},
		{text: "Acme: flex delay 10 days please", wantErr: true},
		{text: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.text)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	st, err := store.Open(filepath.Join(t.TempDir(), "cashplan.db"), log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st, log), st
}

func TestApplyUpdatesSupplier(t *testing.T) {
	e, st := newTestEngine(t)
	if _, err := st.GetOrCreateSupplier("Acme Metals"); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	ok, err := e.Apply("Acme Metals: flex delay 21 days")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !ok {
		t.Fatal("rule was not applied")
	}

	sup, err := st.SupplierByName("Acme Metals")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sup.Type != model.SupplierFlex || sup.MaxDelayDays != 21 {
		t.Errorf("terms = %s/%d, want flex/21", sup.Type, sup.MaxDelayDays)
	}

	all, err := st.ListRules()
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(all) != 1 || !all[0].Applied {
		t.Fatalf("rule history = %+v, want one applied rule", all)
	}
}

func TestApplyUnknownSupplierStaysPending(t *testing.T) {
	e, st := newTestEngine(t)

	ok, err := e.Apply("Nobody: core delay 5 days")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if ok {
		t.Fatal("rule for an unknown supplier reported as applied")
	}

	pending, err := st.PendingRules()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d rules, want the failed rule kept", len(pending))
	}
}

func TestApplyMalformedTextStaysPending(t *testing.T) {
	e, st := newTestEngine(t)

	ok, err := e.Apply("pay acme later")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if ok {
		t.Fatal("malformed rule reported as applied")
	}
	pending, err := st.PendingRules()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d rules, want 1", len(pending))
	}
}

func TestApplyPendingRetriesWithoutDuplicating(t *testing.T) {
	e, st := newTestEngine(t)

	// Recorded before the supplier exists, so it fails and stays
	// pending.
	if _, err := e.Apply("Acme Metals: flex delay 14 days"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := e.Apply("gibberish"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := st.GetOrCreateSupplier("Acme Metals"); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	applied, failed, err := e.ApplyPending()
	if err != nil {
		t.Fatalf("apply pending: %v", err)
	}
	if applied != 1 || failed != 1 {
		t.Errorf("apply pending = %d applied, %d failed, want 1 and 1", applied, failed)
	}

	all, err := st.ListRules()
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("rule rows = %d, want no duplicates from the retry", len(all))
	}

	sup, err := st.SupplierByName("Acme Metals")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sup.Type != model.SupplierFlex || sup.MaxDelayDays != 14 {
		t.Errorf("terms = %s/%d, want flex/14", sup.Type, sup.MaxDelayDays)
	}

	applied, failed, err = e.ApplyPending()
	if err != nil {
		t.Fatalf("second apply pending: %v", err)
	}
	if applied != 0 || failed != 1 {
		t.Errorf("second pass = %d applied, %d failed, want 0 and 1", applied, failed)
	}
}
