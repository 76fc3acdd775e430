package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSeriesRoundTrip(t *testing.T) {
	in := []ForecastPoint{
		{Date: mustDate(t, "2023-02-01"), Predicted: decimal.NewFromFloat(120.5)},
		{Date: mustDate(t, "2023-02-02"), Predicted: decimal.NewFromInt(-40)},
	}
	raw, err := EncodeSeries(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, skipped, err := DecodeSeries(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d points, want %d", len(out), len(in))
	}
	for i := range in {
		if !out[i].Date.Equal(in[i].Date) || !out[i].Predicted.Equal(in[i].Predicted) {
			t.Errorf("point %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeSeriesSkipsMalformedPoints(t *testing.T) {
	raw := []byte(`[
		{"ds":"2023-02-01","yhat":10.5},
		{"ds":"not a date","yhat":1},
		{"yhat":3},
		{"ds":"2023-02-04","yhat":"oops"},
		{"ds":"2023-02-05","yhat":-7}
	]`)
	out, skipped, err := DecodeSeries(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(out) != 2 {
		t.Fatalf("decoded %d points, want 2", len(out))
	}
	if out[1].Date.Format(DateLayout) != "2023-02-05" {
		t.Errorf("last point date = %s, want 2023-02-05", out[1].Date.Format(DateLayout))
	}
}

func TestDecodeSeriesRejectsNonArray(t *testing.T) {
	if _, _, err := DecodeSeries([]byte(`{"ds":"2023-02-01"}`)); err == nil {
		t.Fatal("expected an error for a non-array payload")
	}
}

func TestDecodeSeriesAcceptsTimestampDates(t *testing.T) {
	raw := []byte(`[{"ds":"2023-02-01T00:00:00Z","yhat":5}]`)
	out, skipped, err := DecodeSeries(raw)
	if err != nil || skipped != 0 || len(out) != 1 {
		t.Fatalf("decode = (%v, %d, %v), want one point", out, skipped, err)
	}
	if out[0].Date.Format(DateLayout) != "2023-02-01" {
		t.Errorf("date = %s, want 2023-02-01", out[0].Date.Format(DateLayout))
	}
}
