// Package dataquality serves the administration of data quality rules.
//
// Administrators edit the validation rules applied to property and tax lot records. The rule
// set of an organization lives in the database (see the repository subpackage); every edit
// happens on a Rule Store (see the store subpackage), which reconciles the attributes all
// rules on a field share.
//
// # Sessions
//
// The HTTP API keeps one Rule Store per editing session. A session is opened for an
// organization, loaded with its stored rules, and mutated through the session endpoints until
// it is saved or discarded. Requests on one session are serialized; a request arriving while
// another holds the session is answered with 409. Idle sessions expire after the configured
// TTL.
//
// # Persistence
//
// Service implements the persistence contract the Rule Store calls (fetch, save, restore
// defaults, reset). Successful saves are archived to object storage when the archive is
// enabled; archive failures are logged and never fail the save.
//
// # HTTP Endpoints
//
//   - GET    /data_quality/columns
//   - GET    /data_quality/options
//   - GET    /data_quality/organizations/:org/rules
//   - PUT    /data_quality/organizations/:org/rules
//   - DELETE /data_quality/organizations/:org/rules
//   - POST   /data_quality/organizations/:org/rules/restore_defaults
//   - GET    /data_quality/organizations/:org/labels (?name= looks up one label)
//   - GET    /data_quality/organizations/:org/snapshots
//   - DELETE /data_quality/organizations/:org/snapshots?key=
//   - POST   /data_quality/sessions
//   - GET    /data_quality/sessions/:id (?full=true adds columns and labels)
//   - DELETE /data_quality/sessions/:id
//   - GET    /data_quality/sessions/:id/payload
//   - POST   /data_quality/sessions/:id/{fetch,save,restore_defaults,reset}
//   - POST   /data_quality/sessions/:id/:inventory/rules
//   - PUT    /data_quality/sessions/:id/:inventory/fields/:field/data_type
//   - POST   /data_quality/sessions/:id/:inventory/fields/:field/{required,not_null}
//   - PATCH  /data_quality/sessions/:id/:inventory/fields/:field/rules/:index
//   - DELETE /data_quality/sessions/:id/:inventory/fields/:field/rules/:index
//   - PUT    /data_quality/sessions/:id/:inventory/fields/:field/rules/:index/field
package dataquality
