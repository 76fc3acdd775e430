// Package rules parses natural-language payment term edits and applies
// them to suppliers. Every submitted rule is recorded first, so failed
// rules stay visible as pending.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cashplan-dev/cashplan/internal/metrics"
	"github.com/cashplan-dev/cashplan/internal/model"
	"github.com/cashplan-dev/cashplan/internal/store"
)

// ruleRe matches "<supplier>: <core|flex> delay <N> days".
var ruleRe = regexp.MustCompile(`(?i)^(?P<supplier>[^:]+):\s*(?P<rule_type>flex|core)\s+delay\s+(?P<days>\d+)\s+days$`)

// Command is a parsed rule: set one supplier's payment terms.
type Command struct {
	Supplier     string
	Type         model.SupplierType
	MaxDelayDays int
}

// Parse extracts a command from rule text. The grammar is
// case-insensitive and tolerates surrounding whitespace.
func Parse(text string) (Command, error) {
	m := ruleRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Command{}, fmt.Errorf("rule text not in expected format: %q", text)
	}
	days, err := strconv.Atoi(m[ruleRe.SubexpIndex("days")])
	if err != nil {
		return Command{}, fmt.Errorf("parsing delay days: %w", err)
	}
	typ, err := model.ParseSupplierType(strings.ToLower(m[ruleRe.SubexpIndex("rule_type")]))
	if err != nil {
		return Command{}, err
	}
	return Command{
		Supplier:     strings.TrimSpace(m[ruleRe.SubexpIndex("supplier")]),
		Type:         typ,
		MaxDelayDays: days,
	}, nil
}

// Engine applies rules against the store.
type Engine struct {
	store *store.Store
	log   logrus.FieldLogger
}

// New returns an Engine writing to st.
func New(st *store.Store, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: st, log: log}
}

// Apply records the rule text and tries to apply it. It reports
// whether the rule took effect; unparseable text or an unknown
// supplier leaves the rule pending without an error.
func (e *Engine) Apply(text string) (bool, error) {
	defer metrics.Time(metrics.RulesDuration)()

	rc, err := e.store.AddRuleChange(text)
	if err != nil {
		return false, err
	}
	return e.applyRecorded(rc)
}

// ApplyPending retries every recorded rule that has not yet taken
// effect, in insertion order. Returns applied and failed counts.
func (e *Engine) ApplyPending() (applied, failed int, err error) {
	defer metrics.Time(metrics.RulesDuration)()

	pending, err := e.store.PendingRules()
	if err != nil {
		return 0, 0, err
	}
	for _, rc := range pending {
		ok, err := e.applyRecorded(rc)
		if err != nil {
			return applied, failed, err
		}
		if ok {
			applied++
		} else {
			failed++
		}
	}
	return applied, failed, nil
}

func (e *Engine) applyRecorded(rc model.RuleChange) (bool, error) {
	cmd, err := Parse(rc.Text)
	if err != nil {
		e.log.WithField("rule", rc.Text).WithError(err).Warn("rule not applied")
		return false, nil
	}

	found, err := e.store.UpdateSupplierTerms(cmd.Supplier, cmd.Type, cmd.MaxDelayDays)
	if err != nil {
		return false, err
	}
	if !found {
		e.log.WithFields(logrus.Fields{
			"rule":     rc.Text,
			"supplier": cmd.Supplier,
		}).Warn("rule references unknown supplier")
		return false, nil
	}

	if err := e.store.MarkRuleApplied(rc.ID); err != nil {
		return false, err
	}
	e.log.WithFields(logrus.Fields{
		"supplier":       cmd.Supplier,
		"type":           cmd.Type,
		"max_delay_days": cmd.MaxDelayDays,
	}).Info("applied rule")
	return true, nil
}
