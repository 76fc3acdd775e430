package payment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// WeeklyPosition is the aggregated net cash for one Monday-anchored week.
type WeeklyPosition struct {
	Week model.Week
	Net  decimal.Decimal
}

// AggregateWeeks sums every forecast point into the week containing its
// date and returns the positions in ascending week order. Points need
// not be sorted or unique; duplicate dates accumulate into their week.
func AggregateWeeks(series []model.ForecastPoint) []WeeklyPosition {
	nets := make(map[model.Week]decimal.Decimal, len(series))
	for _, p := range series {
		w := model.WeekOf(p.Date)
		nets[w] = nets[w].Add(p.Predicted)
	}

	out := make([]WeeklyPosition, 0, len(nets))
	for w, net := range nets {
		out = append(out, WeeklyPosition{Week: w, Net: net})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Week.Before(out[j].Week)
	})
	return out
}
