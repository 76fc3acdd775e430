package store

import (
	"fmt"
	"time"

	"github.com/cashplan-dev/cashplan/internal/model"
)

// AddRuleChange records a natural-language rule edit, initially
// unapplied.
func (s *Store) AddRuleChange(text string) (model.RuleChange, error) {
	rc := model.RuleChange{Text: text, CreatedAt: time.Now().UTC()}
	err := s.db.QueryRow(
		s.rebind("INSERT INTO rule_changes (nl_text, applied, created_at) VALUES (?, 0, ?) RETURNING id"),
		rc.Text, rc.CreatedAt.Format(time.RFC3339),
	).Scan(&rc.ID)
	if err != nil {
		return model.RuleChange{}, fmt.Errorf("recording rule: %w", err)
	}
	return rc, nil
}

// PendingRules returns unapplied rules in insertion order.
func (s *Store) PendingRules() ([]model.RuleChange, error) {
	return s.queryRules("SELECT id, nl_text, applied, created_at FROM rule_changes WHERE applied = 0 ORDER BY id")
}

// ListRules returns every recorded rule in insertion order.
func (s *Store) ListRules() ([]model.RuleChange, error) {
	return s.queryRules("SELECT id, nl_text, applied, created_at FROM rule_changes ORDER BY id")
}

func (s *Store) queryRules(query string) ([]model.RuleChange, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.RuleChange
	for rows.Next() {
		var (
			rc      model.RuleChange
			applied int
			created string
		)
		if err := rows.Scan(&rc.ID, &rc.Text, &applied, &created); err != nil {
			return nil, err
		}
		rc.Applied = applied != 0
		rc.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rc)
	}
	return out, rows.Err()
}

// MarkRuleApplied flips a rule's applied flag.
func (s *Store) MarkRuleApplied(id int64) error {
	_, err := s.db.Exec(s.rebind("UPDATE rule_changes SET applied = 1 WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("marking rule %d applied: %w", id, err)
	}
	return nil
}
