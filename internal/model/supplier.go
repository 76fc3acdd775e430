package model

import "fmt"

// SupplierType classifies how flexible a supplier's payment terms are.
// Core suppliers must be paid on time; flex suppliers tolerate delays.
type SupplierType string

const (
	SupplierCore SupplierType = "core"
	SupplierFlex SupplierType = "flex"
)

// ParseSupplierType validates a raw type string from the database or a rule.
func ParseSupplierType(s string) (SupplierType, error) {
	switch SupplierType(s) {
	case SupplierCore, SupplierFlex:
		return SupplierType(s), nil
	}
	return "", fmt.Errorf("unknown supplier type %q", s)
}

// Supplier is a creditor counterparty with negotiated payment terms.
type Supplier struct {
	ID           int64
	Name         string
	Type         SupplierType
	MaxDelayDays int
}
