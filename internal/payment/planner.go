package payment

import (
	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/metrics"
	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

// Planner wires the engine to the store: latest forecast in, draft
// plan out.
type Planner struct {
	store *store.Store
	log   logrus.FieldLogger
}

// NewPlanner returns a Planner over st.
func NewPlanner(st *store.Store, log logrus.FieldLogger) *Planner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Planner{store: st, log: log}
}

// Run derives a draft plan from the latest stored forecast and
// replaces the previous draft batch. Without a usable forecast it
// leaves the store untouched and returns an empty plan; that is a
// warning condition, not an error. Returns the generated entries and
// the number persisted.
func (p *Planner) Run(horizonDays int) ([]model.PlanEntry, int, error) {
	defer metrics.Time(metrics.PaymentPlanDuration)()

	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}

	run, skipped, err := p.store.LatestForecast()
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		p.log.WithField("skipped", skipped).Warn("ignoring malformed forecast points")
	}
	if run == nil || len(run.Series) == 0 {
		p.log.Warn("no forecast available, nothing to plan")
		return nil, 0, nil
	}

	entries := GeneratePlan(run.Series, horizonDays)
	if len(entries) == 0 {
		p.log.Warn("forecast produced no plannable shortfall")
		return nil, 0, nil
	}

	inserted, err := p.store.ReplaceDraftPlans(entries)
	if err != nil {
		return entries, 0, err
	}
	p.log.WithFields(logrus.Fields{
		"horizon_days": horizonDays,
		"entries":      len(entries),
		"inserted":     inserted,
	}).Info("draft plan stored")
	return entries, inserted, nil
}
