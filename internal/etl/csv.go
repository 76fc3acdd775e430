package etl

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// readCSV loads a CSV file and returns its normalized header and data
// rows. Rows may be ragged; callers index them through field.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return normalizeHeader(records[0]), records[1:], nil
}

// normalizeHeader lowercases column names, trims them, and replaces
// spaces with underscores, so "Invoice Date" and "invoice_date" match.
func normalizeHeader(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "_")
	}
	return out
}

// findColumn returns the index of the first column whose normalized
// name contains any of the given substrings, or -1.
func findColumn(header []string, names ...string) int {
	for i, col := range header {
		for _, name := range names {
			if strings.Contains(col, name) {
				return i
			}
		}
	}
	return -1
}

// field safely reads one cell from a possibly ragged row.
func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

var dateLayouts = []string{
	model.DateLayout,
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return model.DateOf(d), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	return decimal.NewFromString(s)
}
