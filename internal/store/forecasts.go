package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// SaveForecast persists a forecast run with its serialized series.
func (s *Store) SaveForecast(run model.ForecastRun) (int64, error) {
	raw, err := model.EncodeSeries(run.Series)
	if err != nil {
		return 0, fmt.Errorf("encoding forecast series: %w", err)
	}
	var id int64
	err = s.db.QueryRow(
		s.rebind("INSERT INTO forecasts (run_date, horizon_days, forecast_json) VALUES (?, ?, ?) RETURNING id"),
		run.RunDate.UTC().Format(time.RFC3339), run.HorizonDays, string(raw),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving forecast: %w", err)
	}
	return id, nil
}

// LatestForecast returns the most recent forecast run, or nil when
// none has been stored. Malformed points inside the stored series are
// skipped; the skip count is returned for the caller to log.
func (s *Store) LatestForecast() (*model.ForecastRun, int, error) {
	var (
		run     model.ForecastRun
		runDate string
		raw     string
	)
	err := s.db.QueryRow(
		"SELECT id, run_date, horizon_days, forecast_json FROM forecasts ORDER BY id DESC LIMIT 1",
	).Scan(&run.ID, &runDate, &run.HorizonDays, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	if run.RunDate, err = time.Parse(time.RFC3339, runDate); err != nil {
		return nil, 0, fmt.Errorf("forecast %d: %w", run.ID, err)
	}
	series, skipped, err := model.DecodeSeries([]byte(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("forecast %d: %w", run.ID, err)
	}
	run.Series = series
	return &run, skipped, nil
}
