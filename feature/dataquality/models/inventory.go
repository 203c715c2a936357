package models

import "fmt"

// InventoryType selects one of the two kinds of inventory records.
type InventoryType string

const (
	InventoryProperties InventoryType = "properties"
	InventoryTaxlots    InventoryType = "taxlots"
)

// InventoryTypes lists both inventory types in payload order.
var InventoryTypes = []InventoryType{InventoryProperties, InventoryTaxlots}

// ParseInventoryType converts a raw string into an InventoryType.
func ParseInventoryType(s string) (InventoryType, error) {
	switch it := InventoryType(s); it {
	case InventoryProperties, InventoryTaxlots:
		return it, nil
	default:
		return "", fmt.Errorf("unknown inventory type %q", s)
	}
}

// Severity is how a failing rule is reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IsValid reports whether the severity is one of the known values.
func (s Severity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning
}

// DefaultRuleType is the rule_type tag assigned to rules created by an administrator.
const DefaultRuleType = 1
