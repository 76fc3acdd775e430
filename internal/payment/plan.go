// Package payment derives draft weekly payment plans from forecasted
// net-cash series. The engine is a pure function: it performs no I/O
// and holds no state between runs.
package payment

import (
	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// DefaultHorizonDays is the planning window used when the caller does
// not choose one.
const DefaultHorizonDays = 91

// Entry notes all contain "draft" so the store can find and replace
// prior draft batches.
const (
	noteDeficit  = "Auto-generated draft; covers deficit: true"
	noteEven     = "Auto-generated draft; covers deficit: false"
	noteFallback = "Auto-generated draft; no deficit detected"
)

var (
	fallbackAmount  = decimal.RequireFromString("1.00")
	minWeeklyAmount = decimal.RequireFromString("0.01")
)

// HorizonWeeks converts a horizon in days to whole planning weeks,
// rounding up. Values below one day count as one.
func HorizonWeeks(days int) int {
	if days < 1 {
		days = 1
	}
	return (days + 6) / 7
}

// GeneratePlan turns a forecast series into one scheduled payment per
// week of the horizon, anchored at the Monday of the earliest forecast
// date. The total shortfall across deficit weeks is spread evenly over
// the horizon, rounded half away from zero to cents; a week with its
// own deficit is never scheduled below that deficit. When no week is
// in deficit the plan is a single nominal entry for review. An empty
// series yields an empty plan.
func GeneratePlan(series []model.ForecastPoint, horizonDays int) []model.PlanEntry {
	if len(series) == 0 {
		return nil
	}

	positions := AggregateWeeks(series)
	anchor := positions[0].Week

	deficits := make(map[model.Week]decimal.Decimal)
	total := decimal.Zero
	for _, p := range positions {
		if p.Net.IsNegative() {
			magnitude := p.Net.Abs()
			deficits[p.Week] = magnitude
			total = total.Add(magnitude)
		}
	}

	if len(deficits) == 0 {
		return []model.PlanEntry{{
			ScheduledDate: anchor.Start(),
			Amount:        fallbackAmount,
			Note:          noteFallback,
		}}
	}
	if !total.IsPositive() {
		return nil
	}

	weeks := HorizonWeeks(horizonDays)
	base := total.Div(decimal.NewFromInt(int64(weeks))).Round(2)
	if base.LessThan(minWeeklyAmount) {
		base = minWeeklyAmount
	}

	entries := make([]model.PlanEntry, 0, weeks)
	for i := 0; i < weeks; i++ {
		week := anchor.Add(i)
		amount := base
		note := noteEven
		if magnitude, ok := deficits[week]; ok {
			note = noteDeficit
			if magnitude.GreaterThan(amount) {
				amount = magnitude
			}
		}
		entries = append(entries, model.PlanEntry{
			ScheduledDate: week.Start(),
			Amount:        amount,
			Note:          note,
		})
	}
	return entries
}
