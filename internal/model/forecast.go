package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NetCashDay is one day of realized net cash: credits minus payments.
type NetCashDay struct {
	Date time.Time
	Net  decimal.Decimal
}

// ForecastPoint is one predicted net-cash value. The first points of a
// run are daily; the remainder of the horizon is aggregated per week.
type ForecastPoint struct {
	Date      time.Time
	Predicted decimal.Decimal
}

// ForecastRun is a stored forecast: when it ran, how far it looked
// ahead, and the predicted series.
type ForecastRun struct {
	ID          int64
	RunDate     time.Time
	HorizonDays int
	Series      []ForecastPoint
}

// forecastPointJSON is the persisted wire form of a point. The key
// names match the upstream prediction format.
type forecastPointJSON struct {
	Date      string          `json:"ds"`
	Predicted decimal.Decimal `json:"yhat"`
}

// EncodeSeries renders a forecast series as a JSON array of
// {"ds","yhat"} objects with ISO dates.
func EncodeSeries(points []ForecastPoint) ([]byte, error) {
	wire := make([]forecastPointJSON, len(points))
	for i, p := range points {
		wire[i] = forecastPointJSON{Date: p.Date.Format(DateLayout), Predicted: p.Predicted}
	}
	return json.Marshal(wire)
}

// DecodeSeries parses a stored forecast series. Elements that are not
// valid {"ds","yhat"} objects are skipped and counted rather than
// failing the whole series; only a malformed outer array is an error.
func DecodeSeries(raw []byte) (points []ForecastPoint, skipped int, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, 0, fmt.Errorf("parsing forecast series: %w", err)
	}
	points = make([]ForecastPoint, 0, len(elems))
	for _, elem := range elems {
		var w forecastPointJSON
		if err := json.Unmarshal(elem, &w); err != nil {
			skipped++
			continue
		}
		d, err := ParseDate(w.Date)
		if err != nil {
			if d, err = time.Parse(time.RFC3339, w.Date); err != nil {
				skipped++
				continue
			}
			d = DateOf(d)
		}
		points = append(points, ForecastPoint{Date: d, Predicted: w.Predicted})
	}
	return points, skipped, nil
}
