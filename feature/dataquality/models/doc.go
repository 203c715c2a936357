// Package models defines the data quality rule types shared by the store, the repository
// and the HTTP layer.
//
// # Representations
//
// A rule exists in two shapes:
//
//   - Rule: the editable, in-session representation. Range bounds are typed (decimal number or
//     calendar date) and labels may still be a free-text name. Data type, required and not-null
//     are not part of a Rule; they live once per field in a FieldDescriptor.
//   - WireRule: the persisted representation exchanged with the repository and over HTTP. Date
//     bounds are encoded as 8-digit YYYYMMDD integers and labels are label ids.
//
// Payload groups wire rules by inventory type ("properties" and "taxlots").
//
// # Date Encoding
//
//	EncodeDate(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)) // 20160101
//	t, err := DecodeDate(20161231)
package models
