package models

import (
	"encoding/json"
	"fmt"
)

// FieldDescriptor holds the attributes every rule on one (inventory type, field) shares.
type FieldDescriptor struct {
	Field    string   `json:"field"`
	DataType DataType `json:"data_type"`
	Required bool     `json:"required"`
	NotNull  bool     `json:"not_null"`
}

// Rule is one editable validation constraint on a field.
type Rule struct {
	Enabled     bool     `json:"enabled"`
	Field       string   `json:"field"`
	DisplayName string   `json:"display_name,omitempty"`
	RuleType    int      `json:"rule_type"`
	Min         Bound    `json:"min"`
	Max         Bound    `json:"max"`
	Severity    Severity `json:"severity"`
	Units       string   `json:"units"`
	Label       LabelRef `json:"label"`

	// New marks a rule created in this session and not yet saved.
	New bool `json:"new"`
	// Autofocus asks the presentation layer to focus the rule for editing.
	Autofocus bool `json:"autofocus"`
}

// ClearRange resets both bounds.
func (r *Rule) ClearRange() {
	r.Min = NullBound()
	r.Max = NullBound()
}

// LabelRef points at a label either by id or, for rules not yet saved, by free-text name.
// The zero value means no label.
type LabelRef struct {
	ID   int
	Name string
}

// LabelID returns a label reference by id.
func LabelID(id int) LabelRef { return LabelRef{ID: id} }

// LabelName returns a label reference by name.
func LabelName(name string) LabelRef { return LabelRef{Name: name} }

// IsZero reports whether no label is referenced.
func (l LabelRef) IsZero() bool { return l.ID == 0 && l.Name == "" }

// MarshalJSON renders the id, the name, or null.
func (l LabelRef) MarshalJSON() ([]byte, error) {
	switch {
	case l.ID != 0:
		return json.Marshal(l.ID)
	case l.Name != "":
		return json.Marshal(l.Name)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a numeric id, a name, or null.
func (l *LabelRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = LabelRef{}
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*l = LabelID(id)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("label must be an id or a name: %w", err)
	}
	*l = LabelName(name)
	return nil
}
