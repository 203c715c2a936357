// Package integrity checks the infrastructure the data quality feature depends on.
//
// # Checks Provided
//
//   - Schema: compares the data_quality_rules and status_labels tables with the gorm models (columns, types).
//   - Archive: verifies the snapshot bucket and prefix exist and hold only <prefix>/<org>/<name>.json objects.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks. Components that are not configured are reported as skipped.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
package integrity
