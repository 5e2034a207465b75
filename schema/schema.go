// Package schema describes telemetry entry and field layouts and encodes/
// decodes the fixed-stride wire schema format (see wire.go).
package schema

import (
	"fmt"

	"github.com/btelem/btelem/format"
	"github.com/btelem/btelem/internal/nameid"
)

// Wire format limits. These bound the fixed-stride records in wire.go and
// are enforced when building a Schema programmatically.
const (
	NameMax        = 64 // including the null terminator; 63 usable bytes
	DescMax        = 128
	MaxFields      = 16
	EnumLabelMax   = 32
	EnumMaxLabels  = 64
	BitNameMax     = 32
	BitfieldMaxBit = 16
)

// BitDef names one bitfield slice within a BITFIELD field's storage integer.
type BitDef struct {
	Name  string
	Start uint8
	Width uint8
}

// FieldDef describes one field within an entry's payload.
type FieldDef struct {
	Name   string
	Offset uint16
	Size   uint16
	Type   format.BtelemType
	Count  uint8 // 1 = scalar, >1 = fixed-length array

	// EnumLabels is non-nil only for Type == format.ENUM fields that carry a
	// label table (≤ EnumMaxLabels entries, each ≤ EnumLabelMax-1 bytes).
	EnumLabels []string

	// BitFields is non-nil only for Type == format.BITFIELD fields that carry
	// a bit layout table (≤ BitfieldMaxBit entries).
	BitFields []BitDef
}

// SchemaEntry describes one producer message type.
type SchemaEntry struct {
	ID          uint16
	Name        string
	Description string
	PayloadSize uint16
	Fields      []FieldDef
}

// Schema is the immutable, shared description of every entry id a producer
// emits. Once constructed (via New or ParseSchema) a Schema is never
// mutated; it is safe to share across goroutines as a read-only reference.
type Schema struct {
	Endian format.Endian

	entries    map[uint16]SchemaEntry
	entryOrder []uint16 // preserves insertion/parse order for Bytes() and iteration
	byName     *nameid.Table[uint16]
}

// New builds a Schema from a list of entries. Entry ids must be unique;
// New panics on a duplicate id since that is a caller programming error,
// not a runtime/wire condition (wire-format duplicates are handled by
// ParseSchema, which keeps the first occurrence and logs nothing).
func New(endian format.Endian, entries ...SchemaEntry) *Schema {
	s := &Schema{
		Endian:  endian,
		entries: make(map[uint16]SchemaEntry, len(entries)),
		byName:  nameid.NewTable[uint16](),
	}
	for _, e := range entries {
		if _, dup := s.entries[e.ID]; dup {
			panic(fmt.Sprintf("schema: duplicate entry id %d", e.ID))
		}
		s.entries[e.ID] = e
		s.entryOrder = append(s.entryOrder, e.ID)
		s.byName.Put(e.Name, e.ID)
	}

	return s
}

// Entry returns the SchemaEntry for id, or false if id is unknown.
func (s *Schema) Entry(id uint16) (SchemaEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// EntryByName looks up an entry by name in O(1) via the xxhash-backed name
// table (internal/nameid).
func (s *Schema) EntryByName(name string) (SchemaEntry, bool) {
	id, ok := s.byName.Get(name)
	if !ok {
		return SchemaEntry{}, false
	}

	return s.Entry(id)
}

// Entries returns every entry in the order they were added or parsed.
func (s *Schema) Entries() []SchemaEntry {
	out := make([]SchemaEntry, 0, len(s.entryOrder))
	for _, id := range s.entryOrder {
		out = append(out, s.entries[id])
	}

	return out
}

// Len returns the number of entries in the schema.
func (s *Schema) Len() int {
	return len(s.entries)
}

// FieldByName looks up a field within entry by name. Returns the field and
// its index, or false if the field name is unknown.
func (e SchemaEntry) FieldByName(name string) (FieldDef, int, bool) {
	for i, f := range e.Fields {
		if f.Name == name {
			return f, i, true
		}
	}

	return FieldDef{}, -1, false
}
