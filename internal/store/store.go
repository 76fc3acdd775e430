// Package store persists cashplan's suppliers, creditor entries, rule
// changes, forecasts, and payment plans. It speaks SQLite by default
// and PostgreSQL when given a postgres:// URL.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // register postgres driver
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // register sqlite driver
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store wraps the cashplan database.
type Store struct {
	db      *sql.DB
	dialect dialect
	log     logrus.FieldLogger
}

// Open connects to the database named by dsn and ensures the schema
// exists. A postgres:// or postgresql:// URL selects the postgres
// driver; anything else is treated as a SQLite path (an optional
// sqlite:// prefix is stripped), created on first use.
func Open(dsn string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		d = dialectPostgres
		db, err = sql.Open("postgres", dsn)
	default:
		d = dialectSQLite
		path := strings.TrimPrefix(dsn, "sqlite://")
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("creating data dir: %w", mkErr)
			}
		}
		db, err = sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dialect: d, log: log}
	if _, err := db.Exec(s.schema()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into the $1..$n form the postgres
// driver requires. SQLite queries pass through unchanged.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Totals summarizes row counts across the main tables.
type Totals struct {
	Suppliers   int `json:"suppliers"`
	Creditors   int `json:"creditors"`
	Rules       int `json:"rules"`
	Forecasts   int `json:"forecasts"`
	PlanEntries int `json:"plan_entries"`
}

// CountTotals reports how many rows each table holds.
func (s *Store) CountTotals() (Totals, error) {
	var t Totals
	counts := []struct {
		table string
		dst   *int
	}{
		{"suppliers", &t.Suppliers},
		{"creditors", &t.Creditors},
		{"rule_changes", &t.Rules},
		{"forecasts", &t.Forecasts},
		{"payment_plans", &t.PlanEntries},
	}
	for _, c := range counts {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return Totals{}, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return t, nil
}
