// Package nameid provides the xxHash64-backed name lookup used by schema.Schema
// to resolve entry names to entry ids in O(1). Field names are not hashed:
// schema.SchemaEntry.FieldByName scans an entry's fields.
package nameid

import "github.com/cespare/xxhash/v2"

// Hash computes the xxHash64 of a schema entry or field name.
func Hash(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Table maps hashed names to an arbitrary key (an entry id or a field index)
// for O(1) lookup. It is not safe for concurrent writes; Schema builds one at
// construction time and never mutates it afterward.
type Table[K any] struct {
	byHash map[uint64]K
}

// NewTable creates an empty name table.
func NewTable[K any]() *Table[K] {
	return &Table[K]{byHash: make(map[uint64]K)}
}

// Put associates name with key, overwriting any previous association for the
// same name (last writer wins, matching Schema's "ids are unique" invariant
// being enforced by the caller before Put is reached).
func (t *Table[K]) Put(name string, key K) {
	t.byHash[Hash(name)] = key
}

// Get looks up the key registered for name.
func (t *Table[K]) Get(name string) (K, bool) {
	k, ok := t.byHash[Hash(name)]
	return k, ok
}

// Len returns the number of distinct names registered.
func (t *Table[K]) Len() int {
	return len(t.byHash)
}
