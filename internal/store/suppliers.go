package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// GetOrCreateSupplier returns the supplier with the given name,
// creating it with default terms (core, no delay) when it is new.
func (s *Store) GetOrCreateSupplier(name string) (model.Supplier, error) {
	sup, err := s.SupplierByName(name)
	if err == nil {
		return sup, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Supplier{}, err
	}

	sup = model.Supplier{Name: name, Type: model.SupplierCore}
	err = s.db.QueryRow(
		s.rebind("INSERT INTO suppliers (name, type, max_delay_days) VALUES (?, ?, ?) RETURNING id"),
		sup.Name, string(sup.Type), sup.MaxDelayDays,
	).Scan(&sup.ID)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("creating supplier %q: %w", name, err)
	}
	s.log.WithField("name", name).Info("created supplier")
	return sup, nil
}

// SupplierByName fetches a supplier by exact name. Returns
// sql.ErrNoRows when absent.
func (s *Store) SupplierByName(name string) (model.Supplier, error) {
	var sup model.Supplier
	var typ string
	err := s.db.QueryRow(
		s.rebind("SELECT id, name, type, max_delay_days FROM suppliers WHERE name = ?"),
		name,
	).Scan(&sup.ID, &sup.Name, &typ, &sup.MaxDelayDays)
	if err != nil {
		return model.Supplier{}, err
	}
	sup.Type = model.SupplierType(typ)
	return sup, nil
}

// UpdateSupplierTerms rewrites a supplier's payment terms. It reports
// whether a supplier with that name existed.
func (s *Store) UpdateSupplierTerms(name string, typ model.SupplierType, maxDelayDays int) (bool, error) {
	res, err := s.db.Exec(
		s.rebind("UPDATE suppliers SET type = ?, max_delay_days = ? WHERE name = ?"),
		string(typ), maxDelayDays, name,
	)
	if err != nil {
		return false, fmt.Errorf("updating supplier %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (s *Store) ListSuppliers() ([]model.Supplier, error) {
	rows, err := s.db.Query("SELECT id, name, type, max_delay_days FROM suppliers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Supplier
	for rows.Next() {
		var sup model.Supplier
		var typ string
		if err := rows.Scan(&sup.ID, &sup.Name, &typ, &sup.MaxDelayDays); err != nil {
			return nil, err
		}
		sup.Type = model.SupplierType(typ)
		out = append(out, sup)
	}
	return out, rows.Err()
}
