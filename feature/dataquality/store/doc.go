// Package store holds the editable data quality rule set of one organization.
//
// A Store owns two RuleGroups, one per inventory type. Each group maps a field name to a
// FieldRules entry: a single FieldDescriptor (data type, required, not-null) shared by every
// rule on that field, plus the ordered list of rules. Keeping the shared attributes in one
// descriptor means rules on the same field can never disagree on them.
//
// # Operations
//
//   - Load, Fetch, RestoreDefaults, ResetAll: (re)build the groups from a persisted payload.
//   - Save: serialise to the wire payload, encode date bounds and resolve label names.
//   - ChangeField, ChangeDataType, ChangeRequired, ChangeNotNull: field-level reconciliation.
//   - CreateRule, DeleteRule, UpdateRule: rule-level edits.
//
// A Store is not safe for concurrent use. Callers serialise access (see the session layer in
// package dataquality). Persistence calls are wrapped by a Busy indicator that is always
// released, and failures are published once on the error topic.
//
// # Notifications
//
//	s.OnChange(func(e store.Event) { ... })
//	s.OnError(func(err error) { ... })
package store
