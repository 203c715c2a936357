// Package archive keeps point-in-time copies of saved rule sets in object storage.
//
// Every successful save can be archived as a JSON document holding the wire payload:
//
//	<prefix>/<organization id>/<UTC timestamp>-<uuid>.json
//
// The timestamp leads the object name, so listing an organization prefix and sorting keys
// yields chronological order without reading any object. The CLI uses List and Latest for
// `rules snapshots` and `rules rollback`; the integrity feature checks the bucket and prefix.
package archive
