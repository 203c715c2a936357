package models

// WireRule is the persisted form of a rule.
type WireRule struct {
	Enabled  bool     `json:"enabled"`
	Field    string   `json:"field" validate:"required,max=255"`
	DataType DataType `json:"data_type"`
	RuleType int      `json:"rule_type" validate:"gte=0"`
	Required bool     `json:"required"`
	NotNull  bool     `json:"not_null"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Severity Severity `json:"severity" validate:"oneof=error warning"`
	Units    string   `json:"units" validate:"max=255"`
	Label    *int     `json:"label" validate:"omitempty,gt=0"`
}

// Payload is the full rule set of an organization grouped by inventory type.
type Payload struct {
	Properties []WireRule `json:"properties" validate:"dive"`
	Taxlots    []WireRule `json:"taxlots" validate:"dive"`
}

// NewPayload returns a payload with empty, non-nil rule lists.
func NewPayload() *Payload {
	return &Payload{Properties: []WireRule{}, Taxlots: []WireRule{}}
}

// Rules returns the rules of one inventory type.
func (p *Payload) Rules(inv InventoryType) []WireRule {
	if inv == InventoryTaxlots {
		return p.Taxlots
	}
	return p.Properties
}

// Append adds a rule to the list of one inventory type.
func (p *Payload) Append(inv InventoryType, r WireRule) {
	if inv == InventoryTaxlots {
		p.Taxlots = append(p.Taxlots, r)
		return
	}
	p.Properties = append(p.Properties, r)
}

// Len returns the total number of rules.
func (p *Payload) Len() int {
	return len(p.Properties) + len(p.Taxlots)
}

// RulesResponse is the envelope the rule endpoints answer with.
type RulesResponse struct {
	Status string   `json:"status"`
	Rules  *Payload `json:"rules"`
}
