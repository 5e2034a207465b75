// Package entry defines the materialized per-entry view event-log consumers
// iterate over. Capture column extractors also go through it: they decode
// each packet into DecodedEntry values with packet.Decode and then copy the
// queried field out of each RawPayload into a typed column (see package
// capture); they do not skip this materialization.
package entry

import "github.com/btelem/btelem/schema"

// DecodedEntry is one timestamped, fully-decoded record.
type DecodedEntry struct {
	// ID is the schema entry id this record was tagged with on the wire.
	ID uint16
	// Timestamp is nanoseconds, producer clock, unsorted across producers.
	Timestamp uint64
	// PayloadSize is the raw payload byte count, independent of how many
	// fields were actually decoded from it.
	PayloadSize uint16
	// RawPayload holds a copy of the undecoded payload bytes.
	RawPayload []byte
	// Fields maps field name to its decoded Value. Empty for unknown ids.
	Fields map[string]schema.Value
	// Name is the schema entry name, or "" if ID is not present in the
	// schema (an opaque entry — still decoded, just without field semantics).
	Name string
}

// Known reports whether this entry's id was present in the schema used to
// decode it.
func (e DecodedEntry) Known() bool {
	return e.Name != ""
}
