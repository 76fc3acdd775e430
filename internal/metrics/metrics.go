// Package metrics defines the Prometheus collectors for cashplan's
// pipelines, exported by the daemon's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ETLDuration tracks full ETL runs.
	ETLDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "etl_duration_seconds",
		Help: "Duration of ETL pipeline",
	})
	// DeltaJobDuration tracks the scheduled incremental aging job.
	DeltaJobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "delta_job_duration_seconds",
		Help: "Duration of delta job execution",
	})
	// ForecastDuration tracks forecast runs.
	ForecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "forecast_duration_seconds",
		Help: "Duration of forecast run",
	})
	// RulesDuration tracks rule parsing and application.
	RulesDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "rules_duration_seconds",
		Help: "Duration of rule parsing/applying",
	})
	// PaymentPlanDuration tracks plan generation and persistence.
	PaymentPlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "payment_plan_duration_seconds",
		Help: "Duration of payment plan generation",
	})
)

// Time records the elapsed time of one operation into h. Call it at
// the top of the operation and invoke the result when done:
//
//	defer metrics.Time(metrics.ETLDuration)()
func Time(h prometheus.Histogram) func() {
	start := time.Now()
	return func() {
		h.Observe(time.Since(start).Seconds())
	}
}
