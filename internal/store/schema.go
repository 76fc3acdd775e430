package store

func (s *Store) schema() string {
	if s.dialect == dialectPostgres {
		return schemaPostgres
	}
	return schemaSQLite
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS suppliers (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL UNIQUE,
    type            TEXT NOT NULL DEFAULT 'core',
    max_delay_days  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS creditors (
    id              INTEGER PRIMARY KEY,
    supplier_id     INTEGER NOT NULL REFERENCES suppliers(id),
    invoice_date    TEXT NOT NULL,
    due_date        TEXT,
    amount          TEXT NOT NULL,
    aging_days      INTEGER NOT NULL DEFAULT 0,
    status          TEXT NOT NULL DEFAULT 'credit'
);

CREATE TABLE IF NOT EXISTS rule_changes (
    id              INTEGER PRIMARY KEY,
    nl_text         TEXT NOT NULL,
    applied         INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS forecasts (
    id              INTEGER PRIMARY KEY,
    run_date        TEXT NOT NULL,
    horizon_days    INTEGER NOT NULL,
    forecast_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_plans (
    id              INTEGER PRIMARY KEY,
    creditor_id     INTEGER REFERENCES creditors(id),
    scheduled_date  TEXT NOT NULL,
    amount          TEXT NOT NULL,
    note            TEXT
);

CREATE INDEX IF NOT EXISTS idx_creditors_supplier ON creditors(supplier_id);
CREATE INDEX IF NOT EXISTS idx_creditors_invoice ON creditors(invoice_date);
CREATE INDEX IF NOT EXISTS idx_plans_scheduled ON payment_plans(scheduled_date);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS suppliers (
    id              BIGSERIAL PRIMARY KEY,
    name            TEXT NOT NULL UNIQUE,
    type            TEXT NOT NULL DEFAULT 'core',
    max_delay_days  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS creditors (
    id              BIGSERIAL PRIMARY KEY,
    supplier_id     BIGINT NOT NULL REFERENCES suppliers(id),
    invoice_date    TEXT NOT NULL,
    due_date        TEXT,
    amount          TEXT NOT NULL,
    aging_days      INTEGER NOT NULL DEFAULT 0,
    status          TEXT NOT NULL DEFAULT 'credit'
);

CREATE TABLE IF NOT EXISTS rule_changes (
    id              BIGSERIAL PRIMARY KEY,
    nl_text         TEXT NOT NULL,
    applied         INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS forecasts (
    id              BIGSERIAL PRIMARY KEY,
    run_date        TEXT NOT NULL,
    horizon_days    INTEGER NOT NULL,
    forecast_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_plans (
    id              BIGSERIAL PRIMARY KEY,
    creditor_id     BIGINT REFERENCES creditors(id),
    scheduled_date  TEXT NOT NULL,
    amount          TEXT NOT NULL,
    note            TEXT
);

CREATE INDEX IF NOT EXISTS idx_creditors_supplier ON creditors(supplier_id);
CREATE INDEX IF NOT EXISTS idx_creditors_invoice ON creditors(invoice_date);
CREATE INDEX IF NOT EXISTS idx_plans_scheduled ON payment_plans(scheduled_date);
`
