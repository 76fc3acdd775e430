package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// Linear is the built-in predictor: an ordinary least squares line
// fitted to the daily history and extended over the future dates.
// It captures drift only, which is enough for a reviewable draft when
// no external forecasting service is configured.
type Linear struct{}

// Predict implements Predictor.
func (Linear) Predict(_ context.Context, history []model.NetCashDay, dates []time.Time) ([]decimal.Decimal, error) {
	if len(history) == 0 {
		return nil, ErrNoHistory
	}

	base := history[0].Date
	n := float64(len(history))
	var sumX, sumY, sumXX, sumXY float64
	for _, h := range history {
		x := h.Date.Sub(base).Hours() / 24
		y := h.Net.InexactFloat64()
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	// With a single observation (or all on one day) the line is flat
	// at the mean.
	slope := 0.0
	intercept := sumY / n
	if denom := n*sumXX - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	}

	out := make([]decimal.Decimal, len(dates))
	for i, d := range dates {
		x := d.Sub(base).Hours() / 24
		out[i] = decimal.NewFromFloat(intercept + slope*x).Round(2)
	}
	return out, nil
}
