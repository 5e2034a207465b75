package capture

import (
	"github.com/btelem/btelem/format"
	"github.com/btelem/btelem/schema"
)

// column accumulates one field's decoded values into a single homogeneous,
// exactly-sized output array: callers call newColumn once they know the
// exact row count from a first counting pass, then call set for every
// matching row during a second fill pass. There is never a resize.
type column struct {
	u64   []uint64
	i64   []int64
	f64   []float64
	b     []bool
	bytes [][]byte
	any   []schema.Value // enum labels, bitfield maps, and any other Value kind
}

func newColumn(t format.BtelemType, n int) *column {
	c := &column{}
	switch t {
	case format.U8, format.U16, format.U32, format.U64:
		c.u64 = make([]uint64, n)
	case format.I8, format.I16, format.I32, format.I64:
		c.i64 = make([]int64, n)
	case format.F32, format.F64:
		c.f64 = make([]float64, n)
	case format.BOOL:
		c.b = make([]bool, n)
	case format.BYTES:
		c.bytes = make([][]byte, n)
	default: // ENUM, BITFIELD
		c.any = make([]schema.Value, n)
	}

	return c
}

// set stores v at row i, converting it to the column's concrete element
// type. A value whose runtime type doesn't match the column's declared kind
// (e.g. a Count>1 array field, or a bitfield's map[string]uint64) always
// falls back to the any column to avoid a silent narrowing.
func (c *column) set(i int, v schema.Value) {
	switch {
	case c.u64 != nil:
		if n, ok := v.(uint64); ok {
			c.u64[i] = n
			return
		}
	case c.i64 != nil:
		if n, ok := v.(int64); ok {
			c.i64[i] = n
			return
		}
	case c.f64 != nil:
		if n, ok := v.(float64); ok {
			c.f64[i] = n
			return
		}
	case c.b != nil:
		if n, ok := v.(bool); ok {
			c.b[i] = n
			return
		}
	case c.bytes != nil:
		if n, ok := v.([]byte); ok {
			c.bytes[i] = n
			return
		}
	}
	c.promoteToAny(i, v)
}

// promoteToAny rebuilds the column as an any-column in place the first time
// set receives a value that doesn't fit its preallocated concrete slice
// (e.g. a scalar field whose Count > 1 yields a slice Value per row).
func (c *column) promoteToAny(i int, v schema.Value) {
	if c.any == nil {
		n := len(c.u64) + len(c.i64) + len(c.f64) + len(c.b) + len(c.bytes)
		c.any = make([]schema.Value, n)
		switch {
		case c.u64 != nil:
			for j, x := range c.u64 {
				c.any[j] = x
			}
			c.u64 = nil
		case c.i64 != nil:
			for j, x := range c.i64 {
				c.any[j] = x
			}
			c.i64 = nil
		case c.f64 != nil:
			for j, x := range c.f64 {
				c.any[j] = x
			}
			c.f64 = nil
		case c.b != nil:
			for j, x := range c.b {
				c.any[j] = x
			}
			c.b = nil
		case c.bytes != nil:
			for j, x := range c.bytes {
				c.any[j] = x
			}
			c.bytes = nil
		}
	}
	c.any[i] = v
}

// values returns the accumulated column as its concrete slice type.
func (c *column) values() any {
	switch {
	case c.u64 != nil:
		return c.u64
	case c.i64 != nil:
		return c.i64
	case c.f64 != nil:
		return c.f64
	case c.b != nil:
		return c.b
	case c.bytes != nil:
		return c.bytes
	default:
		return c.any
	}
}
