package store

import "quality-admin/feature/dataquality/models"

const (
	// TopicChanged carries an Event after every successful mutation.
	TopicChanged = "rules:changed"
	// TopicError carries the error of a failed persistence call.
	TopicError = "app_error"
)

// EventKind names what changed.
type EventKind string

const (
	EventLoaded           EventKind = "loaded"
	EventSaved            EventKind = "saved"
	EventDefaultsRestored EventKind = "defaults_restored"
	EventRulesReset       EventKind = "rules_reset"
	EventFieldChanged     EventKind = "field_changed"
	EventDataTypeChanged  EventKind = "data_type_changed"
	EventRequiredChanged  EventKind = "required_changed"
	EventNotNullChanged   EventKind = "not_null_changed"
	EventRuleCreated      EventKind = "rule_created"
	EventRuleDeleted      EventKind = "rule_deleted"
	EventRuleUpdated      EventKind = "rule_updated"
)

// Event describes a change to the store.
type Event struct {
	Kind      EventKind            `json:"kind"`
	Inventory models.InventoryType `json:"inventory_type,omitempty"`
	Field     string               `json:"field,omitempty"`
}

// OnChange registers fn for change notifications.
func (s *Store) OnChange(fn func(Event)) error {
	return s.bus.Subscribe(TopicChanged, fn)
}

// OnError registers fn for persistence failures.
func (s *Store) OnError(fn func(error)) error {
	return s.bus.Subscribe(TopicError, fn)
}

func (s *Store) publish(e Event) {
	s.bus.Publish(TopicChanged, e)
}
