package model

import "time"

// RuleChange is a natural-language payment term edit, kept as an audit
// trail. Applied flips to true once the rule has updated a supplier.
type RuleChange struct {
	ID        int64
	Text      string
	Applied   bool
	CreatedAt time.Time
}
