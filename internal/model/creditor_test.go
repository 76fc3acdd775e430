package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		amount string
		want   EntryStatus
	}{
		{"150.00", StatusCredit},
		{"-75.50", StatusPayment},
		{"0", StatusPayment},
	}
	for _, tt := range tests {
		amt, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.amount, err)
		}
		if got := StatusFor(amt); got != tt.want {
			t.Errorf("StatusFor(%s) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestAgingBands(t *testing.T) {
	tests := []struct {
		days int
		want AgingBand
	}{
		{0, AgingCurrent},
		{15, AgingCurrent},
		{16, AgingWatch},
		{30, AgingWatch},
		{31, AgingOverdue},
		{90, AgingOverdue},
	}
	for _, tt := range tests {
		c := Creditor{AgingDays: tt.days}
		if got := c.Band(); got != tt.want {
			t.Errorf("Band() with %d days = %d, want %d", tt.days, got, tt.want)
		}
	}
}
