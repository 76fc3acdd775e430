package forecast

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

type stubPredictor struct {
	value decimal.Decimal
}

func (p stubPredictor) Predict(_ context.Context, _ []model.NetCashDay, dates []time.Time) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(dates))
	for i := range out {
		out[i] = p.value
	}
	return out, nil
}

func newTestService(t *testing.T, p Predictor) (*Service, *store.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	st, err := store.Open(filepath.Join(t.TempDir(), "cashplan.db"), log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := New(st, p, log)
	svc.now = func() time.Time {
		return time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	return svc, st
}

func seedHistory(t *testing.T, st *store.Store, dates ...string) {
	t.Helper()
	sup, err := st.GetOrCreateSupplier("Acme Metals")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	for _, d := range dates {
		c := model.Creditor{
			SupplierID:  sup.ID,
			InvoiceDate: mustDate(t, d),
			Amount:      dec("100"),
			Status:      model.StatusCredit,
		}
		if err := st.InsertCreditor(c); err != nil {
			t.Fatalf("insert creditor: %v", err)
		}
	}
}

func TestRunStoresDailyThenWeeklyPoints(t *testing.T) {
	svc, st := newTestService(t, stubPredictor{value: dec("-10")})
	// Last observation on Sunday 2023-01-01, so the horizon starts
	// Monday 2023-01-02.
	seedHistory(t, st, "2022-12-30", "2022-12-31", "2023-01-01")

	run, err := svc.Run(context.Background(), 21)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if run.ID == 0 {
		t.Error("run was not persisted")
	}
	if run.HorizonDays != 21 {
		t.Errorf("horizon = %d, want 21", run.HorizonDays)
	}
	// 14 daily points, then days 15..21 collapse into the week of
	// 2023-01-16.
	if len(run.Series) != 15 {
		t.Fatalf("series length = %d, want 15", len(run.Series))
	}
	if got := run.Series[0].Date.Format(model.DateLayout); got != "2023-01-02" {
		t.Errorf("first point = %s, want 2023-01-02", got)
	}
	if got := run.Series[13].Date.Format(model.DateLayout); got != "2023-01-15" {
		t.Errorf("last daily point = %s, want 2023-01-15", got)
	}
	weekly := run.Series[14]
	if got := weekly.Date.Format(model.DateLayout); got != "2023-01-16" {
		t.Errorf("weekly point = %s, want 2023-01-16", got)
	}
	if !weekly.Predicted.Equal(dec("-70")) {
		t.Errorf("weekly total = %s, want -70", weekly.Predicted)
	}

	stored, err := svc.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if stored == nil || len(stored.Series) != 15 {
		t.Fatalf("stored run = %+v, want the 15 point series back", stored)
	}
}

func TestRunShortHorizonStaysDaily(t *testing.T) {
	svc, _ := newTestService(t, stubPredictor{value: dec("5")})
	seedHistory(t, svc.store, "2023-01-01")

	run, err := svc.Run(context.Background(), 7)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Series) != 7 {
		t.Fatalf("series length = %d, want 7 daily points", len(run.Series))
	}
	for i, p := range run.Series {
		want := mustDate(t, "2023-01-01").AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Errorf("point %d date = %v, want %v", i, p.Date, want)
		}
	}
}

func TestRunNoHistory(t *testing.T) {
	svc, _ := newTestService(t, stubPredictor{value: dec("1")})
	_, err := svc.Run(context.Background(), 14)
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
}

func TestLatestWithoutRuns(t *testing.T) {
	svc, _ := newTestService(t, nil)
	run, err := svc.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if run != nil {
		t.Fatalf("latest = %+v, want nil before any run", run)
	}
}
