// Package daemon provides the long-running background scheduler: a
// monthly creditors-aging delta job plus HTTP endpoints for health,
// status, and metrics.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/etl"
	"github.com/cashplan-dev/cashplan/internal/metrics"
	"github.com/cashplan-dev/cashplan/internal/store"
)

// DefaultCronSpec runs the delta job at midnight on the first of each
// month.
const DefaultCronSpec = "0 0 1 * *"

// Config controls the daemon runtime behavior.
type Config struct {
	Addr     string
	CronSpec string
	AgingCSV string
}

// JobResult records the outcome of one delta job run.
type JobResult struct {
	At       time.Time `json:"at"`
	Inserted int       `json:"inserted"`
	Updated  int       `json:"updated"`
	Error    string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt time.Time    `json:"started_at"`
	CronSpec  string       `json:"cron_spec"`
	AgingCSV  string       `json:"aging_csv,omitempty"`
	NextRunAt time.Time    `json:"next_run_at"`
	RunCount  int64        `json:"run_count"`
	LastRun   *JobResult   `json:"last_run,omitempty"`
	Totals    store.Totals `json:"totals"`
}

// Service provides the scheduler runtime and HTTP API.
type Service struct {
	cfg   Config
	store *store.Store
	log   logrus.FieldLogger

	cron    *cron.Cron
	entryID cron.EntryID

	mu        sync.RWMutex
	startedAt time.Time
	runCount  int64
	lastRun   *JobResult
}

// New returns a daemon service over st with the provided config.
func New(cfg Config, st *store.Store, log logrus.FieldLogger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8000"
	}
	if cfg.CronSpec == "" {
		cfg.CronSpec = DefaultCronSpec
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		cfg:       cfg,
		store:     st,
		log:       log,
		cron:      cron.New(),
		startedAt: time.Now(),
	}
}

// Run starts the schedule and HTTP endpoints until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.cfg.CronSpec, s.RunDeltaJob)
	if err != nil {
		return fmt.Errorf("parsing cron spec %q: %w", s.cfg.CronSpec, err)
	}
	s.entryID = id

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.cron.Start()
	s.log.WithFields(logrus.Fields{
		"addr":     s.cfg.Addr,
		"cron":     s.cfg.CronSpec,
		"next_run": s.cron.Entry(id).Next.Format(time.RFC3339),
	}).Info("scheduler started")

	select {
	case <-ctx.Done():
		// Let an in-flight delta job finish before shutting down.
		<-s.cron.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// RunDeltaJob ingests the configured creditors aging file once. The
// schedule calls it monthly; it is also safe to invoke directly.
func (s *Service) RunDeltaJob() {
	defer metrics.Time(metrics.DeltaJobDuration)()

	res := JobResult{At: time.Now()}
	defer func() { s.record(res) }()

	path := s.cfg.AgingCSV
	if path == "" {
		res.Error = "creditors aging file not configured"
		s.log.Error(res.Error)
		return
	}
	if _, err := os.Stat(path); err != nil {
		res.Error = fmt.Sprintf("creditors aging file not found at %s", path)
		s.log.WithField("path", path).WithError(err).Error("creditors aging file not found")
		return
	}

	inserted, updated, err := etl.New(s.store, s.log).IngestCreditorsAging(path)
	if err != nil {
		res.Error = err.Error()
		s.log.WithError(err).Error("delta job failed")
		return
	}
	res.Inserted, res.Updated = inserted, updated
	s.log.WithFields(logrus.Fields{
		"inserted": inserted,
		"updated":  updated,
	}).Info("delta job complete")
}

func (s *Service) record(res JobResult) {
	s.mu.Lock()
	s.runCount++
	s.lastRun = &res
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	st := Status{
		StartedAt: s.startedAt,
		CronSpec:  s.cfg.CronSpec,
		AgingCSV:  s.cfg.AgingCSV,
		RunCount:  s.runCount,
		LastRun:   s.lastRun,
	}
	s.mu.RUnlock()

	st.NextRunAt = s.cron.Entry(s.entryID).Next

	totals, err := s.store.CountTotals()
	if err != nil {
		s.log.WithError(err).Warn("counting table totals")
	}
	st.Totals = totals
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}
