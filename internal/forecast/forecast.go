// Package forecast fits a predictor to historical daily net cash and
// stores the predicted series: daily points for the first two weeks of
// the horizon, weekly aggregates beyond that.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/metrics"
	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

const (
	// DefaultHorizonDays is the forecast window used when the caller
	// does not choose one.
	DefaultHorizonDays = 14

	// dailyCap is how many leading days stay at daily granularity;
	// the rest of the horizon is aggregated per Monday week.
	dailyCap = 14
)

// ErrNoHistory means the creditors table holds nothing to fit on.
var ErrNoHistory = errors.New("forecast: no historical net cash to fit on")

// Predictor produces one predicted net-cash value per requested future
// date, given the historical daily series.
type Predictor interface {
	Predict(ctx context.Context, history []model.NetCashDay, dates []time.Time) ([]decimal.Decimal, error)
}

// Service runs forecasts against a store.
type Service struct {
	store     *store.Store
	predictor Predictor
	log       logrus.FieldLogger
	now       func() time.Time
}

// New returns a Service using p, or the built-in linear predictor when
// p is nil.
func New(st *store.Store, p Predictor, log logrus.FieldLogger) *Service {
	if p == nil {
		p = Linear{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: st, predictor: p, log: log, now: time.Now}
}

// Run fits the predictor on historical net cash and stores a forecast
// covering horizonDays beyond the last observed date. The stored
// series holds up to fourteen daily points followed by one point per
// remaining week, each carrying that week's summed prediction.
func (s *Service) Run(ctx context.Context, horizonDays int) (model.ForecastRun, error) {
	defer metrics.Time(metrics.ForecastDuration)()

	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}

	history, skipped, err := s.store.HistoricalNetCash()
	if err != nil {
		return model.ForecastRun{}, err
	}
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("ignoring unreadable creditor rows")
	}
	if len(history) == 0 {
		return model.ForecastRun{}, ErrNoHistory
	}

	last := history[len(history)-1].Date
	dates := make([]time.Time, horizonDays)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}

	values, err := s.predictor.Predict(ctx, history, dates)
	if err != nil {
		return model.ForecastRun{}, fmt.Errorf("predicting: %w", err)
	}
	if len(values) != len(dates) {
		return model.ForecastRun{}, fmt.Errorf("predictor returned %d values for %d dates", len(values), len(dates))
	}

	daily := min(horizonDays, dailyCap)
	points := make([]model.ForecastPoint, 0, horizonDays)
	for i := 0; i < daily; i++ {
		points = append(points, model.ForecastPoint{Date: dates[i], Predicted: values[i]})
	}
	points = append(points, weeklyTail(dates[daily:], values[daily:])...)

	run := model.ForecastRun{
		RunDate:     s.now().UTC(),
		HorizonDays: horizonDays,
		Series:      points,
	}
	if run.ID, err = s.store.SaveForecast(run); err != nil {
		return model.ForecastRun{}, err
	}

	s.log.WithFields(logrus.Fields{
		"horizon_days": horizonDays,
		"points":       len(points),
		"history_days": len(history),
	}).Info("forecast stored")
	return run, nil
}

// weeklyTail sums the remaining daily predictions into Monday weeks,
// ascending.
func weeklyTail(dates []time.Time, values []decimal.Decimal) []model.ForecastPoint {
	if len(dates) == 0 {
		return nil
	}
	nets := make(map[model.Week]decimal.Decimal)
	for i, d := range dates {
		w := model.WeekOf(d)
		nets[w] = nets[w].Add(values[i])
	}
	weeks := make([]model.Week, 0, len(nets))
	for w := range nets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	out := make([]model.ForecastPoint, len(weeks))
	for i, w := range weeks {
		out[i] = model.ForecastPoint{Date: w.Start(), Predicted: nets[w]}
	}
	return out
}

// Latest returns the most recent stored forecast, or nil when none
// exists yet.
func (s *Service) Latest() (*model.ForecastRun, error) {
	run, skipped, err := s.store.LatestForecast()
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("ignoring malformed forecast points")
	}
	return run, nil
}
