package store

import (
	"context"
	"errors"
	"fmt"

	"quality-admin/feature/dataquality/models"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

var (
	// ErrUnknownInventory is returned for an inventory type the store does not hold.
	ErrUnknownInventory = errors.New("unknown inventory type")
	// ErrFieldNotFound is returned when a field has no rules.
	ErrFieldNotFound = errors.New("field has no rules")
	// ErrRuleNotFound is returned when a rule index is out of range.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrNoColumns is returned by CreateRule when no column is known for the inventory type.
	ErrNoColumns = errors.New("no columns available")
	// ErrUnknownLabel is returned when a label name matches no known label.
	ErrUnknownLabel = errors.New("unknown label")
)

// Options configures a Store.
type Options struct {
	// OrgID is the organization whose rules are edited.
	OrgID int
	// Persistence loads and stores the rule set.
	Persistence RulePersistence
	// Columns is the column metadata per inventory type. The first column seeds new rules.
	Columns map[models.InventoryType][]models.Column
	// Labels are the labels known to the organization.
	Labels []models.Label
	// Busy is shown around persistence calls. Optional.
	Busy Busy
	// Logger is optional.
	Logger *zap.Logger
}

// Status reports the outcome flags of the last persistence operations.
type Status struct {
	DefaultsRestored bool `json:"defaults_restored"`
	RulesReset       bool `json:"rules_reset"`
	RulesUpdated     bool `json:"rules_updated"`
}

// Store is the editable rule set of one organization.
type Store struct {
	orgID       int
	persistence RulePersistence
	columns     map[models.InventoryType][]models.Column
	labels      []models.Label
	busy        Busy
	logger      *zap.Logger
	bus         EventBus.Bus

	groups map[models.InventoryType]*RuleGroup
	status Status
}

// New creates an empty Store.
func New(opts Options) *Store {
	s := &Store{
		orgID:       opts.OrgID,
		persistence: opts.Persistence,
		columns:     opts.Columns,
		labels:      opts.Labels,
		busy:        opts.Busy,
		logger:      opts.Logger,
		bus:         EventBus.New(),
		groups:      newGroups(),
	}
	if s.busy == nil {
		s.busy = noopBusy{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.columns == nil {
		s.columns = make(map[models.InventoryType][]models.Column)
	}
	return s
}

func newGroups() map[models.InventoryType]*RuleGroup {
	return map[models.InventoryType]*RuleGroup{
		models.InventoryProperties: newRuleGroup(),
		models.InventoryTaxlots:    newRuleGroup(),
	}
}

// OrgID returns the organization the store edits.
func (s *Store) OrgID() int { return s.orgID }

// Status returns the outcome flags.
func (s *Store) Status() Status { return s.status }

// Load rebuilds both groups from a persisted payload. The first rule seen for a field defines
// its descriptor.
func (s *Store) Load(payload *models.Payload) {
	groups := newGroups()
	if payload != nil {
		for _, inv := range models.InventoryTypes {
			g := groups[inv]
			for _, wr := range payload.Rules(inv) {
				fr, exists := g.Get(wr.Field)
				if !exists {
					fr = g.add(models.FieldDescriptor{
						Field:    wr.Field,
						DataType: wr.DataType,
						Required: wr.Required,
						NotNull:  wr.NotNull,
					})
				} else if fr.Descriptor.DataType != wr.DataType || fr.Descriptor.Required != wr.Required || fr.Descriptor.NotNull != wr.NotNull {
					s.logger.Debug("Rule disagrees with field descriptor, keeping descriptor",
						zap.String("inventory_type", string(inv)),
						zap.String("field", wr.Field))
				}
				fr.Rules = append(fr.Rules, s.ruleFromWire(inv, fr.Descriptor.DataType, wr))
			}
		}
	}
	s.groups = groups
	s.publish(Event{Kind: EventLoaded})
}

// ruleFromWire decodes bounds with the field's data type, not the rule's own copy.
func (s *Store) ruleFromWire(inv models.InventoryType, dataType models.DataType, wr models.WireRule) *models.Rule {
	r := &models.Rule{
		Enabled:  wr.Enabled,
		Field:    wr.Field,
		RuleType: wr.RuleType,
		Min:      models.BoundFromWire(wr.Min, dataType),
		Max:      models.BoundFromWire(wr.Max, dataType),
		Severity: wr.Severity,
		Units:    wr.Units,
	}
	if wr.Label != nil {
		r.Label = models.LabelID(*wr.Label)
	}
	if col, ok := models.FindColumn(s.columns[inv], wr.Field); ok {
		r.DisplayName = col.DisplayName
	}
	return r
}

// Fetch loads the stored rules. On failure the store keeps its previous state.
func (s *Store) Fetch(ctx context.Context) error {
	return s.reload(ctx, "fetch", s.persistence.FetchRules)
}

// RestoreDefaults replaces the stored rules with the defaults and loads them.
func (s *Store) RestoreDefaults(ctx context.Context) error {
	s.status.DefaultsRestored = false
	if err := s.reload(ctx, "restore default", s.persistence.RestoreDefaultRules); err != nil {
		return err
	}
	s.status.DefaultsRestored = true
	s.publish(Event{Kind: EventDefaultsRestored})
	return nil
}

// ResetAll deletes every stored rule and loads the result.
func (s *Store) ResetAll(ctx context.Context) error {
	s.status.RulesReset = false
	if err := s.reload(ctx, "reset", s.persistence.ResetAllRules); err != nil {
		return err
	}
	s.status.RulesReset = true
	s.publish(Event{Kind: EventRulesReset})
	return nil
}

func (s *Store) reload(ctx context.Context, op string, call func(context.Context, int) (*models.Payload, error)) error {
	s.busy.Show()
	defer s.busy.Hide()

	payload, err := call(ctx, s.orgID)
	if err != nil {
		return s.fail(op, err)
	}
	s.Load(payload)
	return nil
}

// Save sends the rule set to persistence. New rules naming a label by text are resolved to the
// label with exactly that name; names matching no label are sent as null. Local state only
// changes on success.
func (s *Store) Save(ctx context.Context) error {
	s.status.RulesUpdated = false
	payload, resolved := s.serialize()

	s.busy.Show()
	defer s.busy.Hide()

	if err := s.persistence.SaveRules(ctx, s.orgID, payload); err != nil {
		return s.fail("save", err)
	}

	for rule, id := range resolved {
		rule.Label = models.LabelID(id)
	}
	s.eachRule(func(_ models.InventoryType, _ *FieldRules, r *models.Rule) {
		r.New = false
	})
	s.status.RulesUpdated = true
	s.publish(Event{Kind: EventSaved})
	return nil
}

// Payload returns the wire form of the current rule set without changing the store.
func (s *Store) Payload() *models.Payload {
	payload, _ := s.serialize()
	return payload
}

func (s *Store) serialize() (*models.Payload, map[*models.Rule]int) {
	payload := models.NewPayload()
	resolved := make(map[*models.Rule]int)

	s.eachRule(func(inv models.InventoryType, fr *FieldRules, r *models.Rule) {
		wr := models.WireRule{
			Enabled:  r.Enabled,
			Field:    r.Field,
			DataType: fr.Descriptor.DataType,
			RuleType: r.RuleType,
			Required: fr.Descriptor.Required,
			NotNull:  fr.Descriptor.NotNull,
			Min:      r.Min.ToWire(),
			Max:      r.Max.ToWire(),
			Severity: r.Severity,
			Units:    r.Units,
		}

		switch {
		case r.Label.ID != 0:
			id := r.Label.ID
			wr.Label = &id
		case r.New && r.Label.Name != "":
			if l, ok := models.FindLabelByName(s.labels, r.Label.Name); ok {
				id := l.ID
				wr.Label = &id
				resolved[r] = id
			} else {
				s.logger.Warn("Label name matches no label, sending rule without label",
					zap.String("field", r.Field),
					zap.String("label", r.Label.Name))
			}
		}

		payload.Append(inv, wr)
	})
	return payload, resolved
}

func (s *Store) eachRule(fn func(models.InventoryType, *FieldRules, *models.Rule)) {
	for _, inv := range models.InventoryTypes {
		g := s.groups[inv]
		for _, field := range g.order {
			fr := g.fields[field]
			for _, r := range fr.Rules {
				fn(inv, fr, r)
			}
		}
	}
}

func (s *Store) fail(op string, err error) error {
	err = fmt.Errorf("%s rules: %w", op, err)
	s.logger.Error("Rule persistence failed", zap.Int("org_id", s.orgID), zap.Error(err))
	s.bus.Publish(TopicError, err)
	return err
}

func (s *Store) group(inv models.InventoryType) (*RuleGroup, error) {
	g, ok := s.groups[inv]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInventory, inv)
	}
	return g, nil
}

// ChangeField moves the rule at index of oldField to newField. When newField already has rules
// the moved rule takes that field's descriptor; otherwise the field is created with the column's
// data type (null for unknown columns). Bounds and units are cleared when the data type change
// is not compatible.
func (s *Store) ChangeField(inv models.InventoryType, oldField string, index int, newField string) (*models.Rule, error) {
	g, err := s.group(inv)
	if err != nil {
		return nil, err
	}
	src, rule, err := g.rule(oldField, index)
	if err != nil {
		return nil, err
	}
	if newField == oldField {
		return rule, nil
	}

	col, known := models.FindColumn(s.columns[inv], newField)
	dest, exists := g.Get(newField)

	target := models.DataTypeNull
	switch {
	case exists:
		target = dest.Descriptor.DataType
	case known:
		target = col.DataType
	}

	if !models.BoundsCompatible(src.Descriptor.DataType, target) {
		rule.ClearRange()
		rule.Units = ""
	}

	if !exists {
		dest = g.add(models.FieldDescriptor{
			Field:    newField,
			DataType: target,
			Required: src.Descriptor.Required,
			NotNull:  src.Descriptor.NotNull,
		})
	}

	rule.Field = newField
	rule.DisplayName = col.DisplayName
	rule.Autofocus = true
	dest.Rules = append(dest.Rules, rule)

	if err := g.removeRule(oldField, index); err != nil {
		return nil, err
	}

	s.publish(Event{Kind: EventFieldChanged, Inventory: inv, Field: newField})
	return rule, nil
}

// ChangeDataType sets the data type of a field. Bounds of every rule on the field are cleared
// unless both the old and the new type are null or number.
func (s *Store) ChangeDataType(inv models.InventoryType, field string, dataType models.DataType) error {
	fr, err := s.field(inv, field)
	if err != nil {
		return err
	}
	if fr.Descriptor.DataType == dataType {
		return nil
	}
	if !models.BoundsCompatible(fr.Descriptor.DataType, dataType) {
		for _, r := range fr.Rules {
			r.ClearRange()
		}
	}
	fr.Descriptor.DataType = dataType

	s.publish(Event{Kind: EventDataTypeChanged, Inventory: inv, Field: field})
	return nil
}

// ChangeRequired toggles the required flag of a field and returns the new value.
func (s *Store) ChangeRequired(inv models.InventoryType, field string) (bool, error) {
	fr, err := s.field(inv, field)
	if err != nil {
		return false, err
	}
	fr.Descriptor.Required = !fr.Descriptor.Required

	s.publish(Event{Kind: EventRequiredChanged, Inventory: inv, Field: field})
	return fr.Descriptor.Required, nil
}

// ChangeNotNull toggles the not-null flag of a field and returns the new value.
func (s *Store) ChangeNotNull(inv models.InventoryType, field string) (bool, error) {
	fr, err := s.field(inv, field)
	if err != nil {
		return false, err
	}
	fr.Descriptor.NotNull = !fr.Descriptor.NotNull

	s.publish(Event{Kind: EventNotNullChanged, Inventory: inv, Field: field})
	return fr.Descriptor.NotNull, nil
}

func (s *Store) field(inv models.InventoryType, field string) (*FieldRules, error) {
	g, err := s.group(inv)
	if err != nil {
		return nil, err
	}
	fr, ok := g.Get(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
	return fr, nil
}

// CreateRule appends a new rule on the first known column and returns it with its index.
// When the field already has rules, its descriptor is kept.
func (s *Store) CreateRule(inv models.InventoryType) (*models.Rule, int, error) {
	g, err := s.group(inv)
	if err != nil {
		return nil, 0, err
	}
	cols := s.columns[inv]
	if len(cols) == 0 || cols[0].Name == "" {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoColumns, inv)
	}
	col := cols[0]

	fr := g.add(models.FieldDescriptor{Field: col.Name, DataType: col.DataType})
	rule := &models.Rule{
		Enabled:     true,
		Field:       col.Name,
		DisplayName: col.DisplayName,
		RuleType:    models.DefaultRuleType,
		Severity:    models.SeverityError,
		New:         true,
		Autofocus:   true,
	}
	fr.Rules = append(fr.Rules, rule)

	s.publish(Event{Kind: EventRuleCreated, Inventory: inv, Field: col.Name})
	return rule, len(fr.Rules) - 1, nil
}

// DeleteRule removes the rule at index of field. The field is dropped with its last rule.
func (s *Store) DeleteRule(inv models.InventoryType, field string, index int) error {
	g, err := s.group(inv)
	if err != nil {
		return err
	}
	if err := g.removeRule(field, index); err != nil {
		return err
	}

	s.publish(Event{Kind: EventRuleDeleted, Inventory: inv, Field: field})
	return nil
}

// RuleUpdate lists the per-rule attributes to change. Nil entries are left untouched.
type RuleUpdate struct {
	Enabled  *bool
	RuleType *int
	Min      *models.Bound
	Max      *models.Bound
	Severity *models.Severity
	Units    *string
	Label    *models.LabelRef
}

// UpdateRule edits the per-rule attributes of the rule at index of field. A label given by name
// on a rule that was already saved must match a known label.
func (s *Store) UpdateRule(inv models.InventoryType, field string, index int, u RuleUpdate) (*models.Rule, error) {
	g, err := s.group(inv)
	if err != nil {
		return nil, err
	}
	fr, rule, err := g.rule(field, index)
	if err != nil {
		return nil, err
	}

	label := rule.Label
	if u.Label != nil {
		label = *u.Label
		if label.ID == 0 && label.Name != "" && !rule.New {
			l, ok := models.FindLabelByName(s.labels, label.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label.Name)
			}
			label = models.LabelID(l.ID)
		}
	}

	if u.Enabled != nil {
		rule.Enabled = *u.Enabled
	}
	if u.RuleType != nil {
		rule.RuleType = *u.RuleType
	}
	if u.Min != nil {
		rule.Min = u.Min.As(fr.Descriptor.DataType)
	}
	if u.Max != nil {
		rule.Max = u.Max.As(fr.Descriptor.DataType)
	}
	if u.Severity != nil {
		rule.Severity = *u.Severity
	}
	if u.Units != nil {
		rule.Units = *u.Units
	}
	rule.Label = label

	s.publish(Event{Kind: EventRuleUpdated, Inventory: inv, Field: field})
	return rule, nil
}

// FieldView is a read-only copy of one field and its rules.
type FieldView struct {
	models.FieldDescriptor
	Rules []models.Rule `json:"rules"`
}

// Group returns a copy of the fields of one inventory type in insertion order.
func (s *Store) Group(inv models.InventoryType) ([]FieldView, error) {
	g, err := s.group(inv)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, 0, g.Len())
	for _, field := range g.order {
		fr := g.fields[field]
		v := FieldView{FieldDescriptor: fr.Descriptor, Rules: make([]models.Rule, len(fr.Rules))}
		for i, r := range fr.Rules {
			v.Rules[i] = *r
		}
		views = append(views, v)
	}
	return views, nil
}

// Field returns a copy of one field and its rules.
func (s *Store) Field(inv models.InventoryType, field string) (FieldView, error) {
	fr, err := s.field(inv, field)
	if err != nil {
		return FieldView{}, err
	}
	v := FieldView{FieldDescriptor: fr.Descriptor, Rules: make([]models.Rule, len(fr.Rules))}
	for i, r := range fr.Rules {
		v.Rules[i] = *r
	}
	return v, nil
}

// Snapshot returns copies of both groups.
func (s *Store) Snapshot() map[models.InventoryType][]FieldView {
	out := make(map[models.InventoryType][]FieldView, len(models.InventoryTypes))
	for _, inv := range models.InventoryTypes {
		out[inv], _ = s.Group(inv)
	}
	return out
}

// Columns returns the column metadata of an inventory type.
func (s *Store) Columns(inv models.InventoryType) []models.Column {
	return s.columns[inv]
}

// Labels returns the known labels.
func (s *Store) Labels() []models.Label {
	return s.labels
}
