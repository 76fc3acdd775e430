// Package model defines the domain types for cashplan: suppliers, creditor
// entries, payment term rules, forecast runs, and payment plan entries.
package model

import "time"

// Week is a calendar week identified by its Monday, stored as a UTC
// midnight time.Time. All weeks produced by WeekOf compare equal when
// they cover the same Monday, so Week is usable as a map key.
type Week time.Time

// WeekOf returns the week containing d. The week always starts on
// Monday, so a Sunday maps to the Monday six days earlier.
func WeekOf(d time.Time) Week {
	d = DateOf(d)
	back := (int(d.Weekday()) + 6) % 7
	return Week(d.AddDate(0, 0, -back))
}

// Start returns the Monday that opens the week, at UTC midnight.
func (w Week) Start() time.Time {
	return time.Time(w)
}

// Add returns the week n weeks after w. Negative n steps backwards.
func (w Week) Add(n int) Week {
	return Week(time.Time(w).AddDate(0, 0, 7*n))
}

// Before reports whether w starts before o.
func (w Week) Before(o Week) bool {
	return time.Time(w).Before(time.Time(o))
}

// Equal reports whether w and o cover the same Monday.
func (w Week) Equal(o Week) bool {
	return time.Time(w).Equal(time.Time(o))
}

// String formats the week as its Monday in ISO form, e.g. "2022-12-26".
func (w Week) String() string {
	return time.Time(w).Format(DateLayout)
}

// DateLayout is the ISO date form used for all persisted dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to a calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO "2006-01-02" date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
