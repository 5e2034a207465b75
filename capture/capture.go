// Package capture implements the two capture-side column extractors:
// FileCapture (footer-index-pruned reads from a closed log file) and
// LiveCapture (a bounded in-memory packet ring fed from a live transport).
// Both share the two-pass exact-count extraction algorithm in this file: a
// first pass counts exact matching rows, a second allocates exact-size
// typed slices and fills them, avoiding an over-allocate-then-truncate step.
package capture

import (
	"fmt"

	"github.com/btelem/btelem/entry"
	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
)

// bound is an optional inclusive time bound.
type bound struct {
	value uint64
	has   bool
}

func unbounded() bound { return bound{} }

func (b bound) satisfiesMin(ts uint64) bool { return !b.has || ts >= b.value }
func (b bound) satisfiesMax(ts uint64) bool { return !b.has || ts <= b.value }

// decodedEntries runs packet.Decode over every packet, filtered to id, and
// invokes fn for every resulting entry whose timestamp satisfies [t0, t1].
func decodedEntries(sch *schema.Schema, packets [][]byte, id uint16, t0, t1 bound, fn func(entry.DecodedEntry)) {
	filter := map[uint16]struct{}{id: {}}
	for _, pkt := range packets {
		res := packet.Decode(sch, pkt, filter)
		for _, e := range res.Entries {
			if t0.satisfiesMin(e.Timestamp) && t1.satisfiesMax(e.Timestamp) {
				fn(e)
			}
		}
	}
}

// series performs the two-pass count-then-fill extraction of one field
// across packets: pass one counts exactly how many entries of id satisfy
// the time bound, pass two allocates exactly that many rows and fills them.
func series(sch *schema.Schema, packets [][]byte, entryName, fieldName string, t0, t1 bound) ([]uint64, any, error) {
	se, ok := sch.EntryByName(entryName)
	if !ok {
		return nil, nil, fmt.Errorf("capture: entry %q: %w", entryName, errs.ErrUnknownChannel)
	}
	f, _, ok := se.FieldByName(fieldName)
	if !ok {
		return nil, nil, fmt.Errorf("capture: field %q on entry %q: %w", fieldName, entryName, errs.ErrUnknownChannel)
	}

	count := 0
	decodedEntries(sch, packets, se.ID, t0, t1, func(entry.DecodedEntry) { count++ })

	timestamps := make([]uint64, count)
	col := newColumn(f.Type, count)

	i := 0
	decodedEntries(sch, packets, se.ID, t0, t1, func(e entry.DecodedEntry) {
		timestamps[i] = e.Timestamp
		if v, ok := sch.DecodeField(f, e.RawPayload); ok {
			col.set(i, v)
		}
		i++
	})

	return timestamps, col.values(), nil
}

// table performs the same two-pass extraction as series but for every field
// of entryName at once, sharing the single entry-matching pass.
func table(sch *schema.Schema, packets [][]byte, entryName string, t0, t1 bound) ([]uint64, map[string]any, error) {
	se, ok := sch.EntryByName(entryName)
	if !ok {
		return nil, nil, fmt.Errorf("capture: entry %q: %w", entryName, errs.ErrUnknownChannel)
	}

	count := 0
	decodedEntries(sch, packets, se.ID, t0, t1, func(entry.DecodedEntry) { count++ })

	timestamps := make([]uint64, count)
	cols := make(map[string]*column, len(se.Fields))
	for _, f := range se.Fields {
		cols[f.Name] = newColumn(f.Type, count)
	}

	i := 0
	decodedEntries(sch, packets, se.ID, t0, t1, func(e entry.DecodedEntry) {
		timestamps[i] = e.Timestamp
		for _, f := range se.Fields {
			if v, ok := sch.DecodeField(f, e.RawPayload); ok {
				cols[f.Name].set(i, v)
			}
		}
		i++
	})

	out := make(map[string]any, len(cols))
	for name, c := range cols {
		out[name] = c.values()
	}

	return timestamps, out, nil
}

// entryCounts tallies total matching rows per entry name across packets,
// with no time bound (a single pass, since no output column is materialized).
func entryCounts(sch *schema.Schema, packets [][]byte) map[string]uint64 {
	out := make(map[string]uint64, sch.Len())
	for _, pkt := range packets {
		res := packet.Decode(sch, pkt, nil)
		for _, e := range res.Entries {
			if e.Name != "" {
				out[e.Name]++
			}
		}
	}

	return out
}

// timeRangeOf scans every packet's header-derived (ts_min, ts_max) and returns
// the overall min/max, or (0, 0) if packets is empty.
func timeRangeOf(packets [][]byte) (uint64, uint64) {
	if len(packets) == 0 {
		return 0, 0
	}

	tsMin, tsMax := ^uint64(0), uint64(0)
	for _, pkt := range packets {
		min, max := packet.TimeRange(pkt)
		if min < tsMin {
			tsMin = min
		}
		if max > tsMax {
			tsMax = max
		}
	}
	if tsMin == ^uint64(0) {
		tsMin = 0
	}

	return tsMin, tsMax
}
