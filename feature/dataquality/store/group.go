package store

import (
	"fmt"

	"quality-admin/feature/dataquality/models"
)

// FieldRules is the descriptor and the rules of one field.
type FieldRules struct {
	Descriptor models.FieldDescriptor
	Rules      []*models.Rule
}

// RuleGroup maps field names to their rules for one inventory type.
// Fields keep insertion order.
type RuleGroup struct {
	order  []string
	fields map[string]*FieldRules
}

func newRuleGroup() *RuleGroup {
	return &RuleGroup{fields: make(map[string]*FieldRules)}
}

// Fields returns the field names in insertion order.
func (g *RuleGroup) Fields() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the entry of a field.
func (g *RuleGroup) Get(field string) (*FieldRules, bool) {
	fr, ok := g.fields[field]
	return fr, ok
}

// Len returns the number of fields with at least one rule.
func (g *RuleGroup) Len() int {
	return len(g.order)
}

// add returns the entry of field, creating it with desc when absent.
func (g *RuleGroup) add(desc models.FieldDescriptor) *FieldRules {
	if fr, ok := g.fields[desc.Field]; ok {
		return fr
	}
	fr := &FieldRules{Descriptor: desc}
	g.fields[desc.Field] = fr
	g.order = append(g.order, desc.Field)
	return fr
}

func (g *RuleGroup) remove(field string) {
	delete(g.fields, field)
	for i, f := range g.order {
		if f == field {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

// rule returns the rule at index of field.
func (g *RuleGroup) rule(field string, index int) (*FieldRules, *models.Rule, error) {
	fr, ok := g.fields[field]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
	if index < 0 || index >= len(fr.Rules) {
		return nil, nil, fmt.Errorf("%w: %s[%d]", ErrRuleNotFound, field, index)
	}
	return fr, fr.Rules[index], nil
}

// removeRule drops the rule at index. A field left without rules is removed.
func (g *RuleGroup) removeRule(field string, index int) error {
	fr, _, err := g.rule(field, index)
	if err != nil {
		return err
	}
	if len(fr.Rules) == 1 {
		g.remove(field)
		return nil
	}
	fr.Rules = append(fr.Rules[:index], fr.Rules[index+1:]...)
	return nil
}
