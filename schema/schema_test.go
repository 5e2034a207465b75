package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btelem/btelem/endian"
	"github.com/btelem/btelem/format"
)

func TestSchema_EntryAndEntryByName(t *testing.T) {
	s := New(format.LittleEndian,
		SchemaEntry{ID: 1, Name: "imu"},
		SchemaEntry{ID: 2, Name: "gps"},
	)

	e, ok := s.Entry(2)
	require.True(t, ok)
	assert.Equal(t, "gps", e.Name)

	e, ok = s.EntryByName("imu")
	require.True(t, ok)
	assert.Equal(t, uint16(1), e.ID)

	_, ok = s.Entry(99)
	assert.False(t, ok)
}

func TestSchema_NativeByteOrder(t *testing.T) {
	little := New(format.LittleEndian, SchemaEntry{ID: 1, Name: "imu"})
	big := New(format.BigEndian, SchemaEntry{ID: 1, Name: "imu"})

	assert.Equal(t, endian.IsNativeLittleEndian(), little.NativeByteOrder())
	assert.Equal(t, endian.IsNativeBigEndian(), big.NativeByteOrder())
}

func TestSchema_New_DuplicateIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		New(format.LittleEndian, SchemaEntry{ID: 1}, SchemaEntry{ID: 1})
	})
}

func TestSchema_EntriesPreservesOrder(t *testing.T) {
	s := New(format.LittleEndian,
		SchemaEntry{ID: 5, Name: "c"},
		SchemaEntry{ID: 1, Name: "a"},
		SchemaEntry{ID: 3, Name: "b"},
	)

	ids := make([]uint16, 0, 3)
	for _, e := range s.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint16{5, 1, 3}, ids)
}

func TestSchemaEntry_FieldByName(t *testing.T) {
	e := SchemaEntry{Fields: []FieldDef{
		{Name: "a", Type: format.U8},
		{Name: "b", Type: format.F32},
	}}

	f, i, ok := e.FieldByName("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, format.F32, f.Type)

	_, _, ok = e.FieldByName("missing")
	assert.False(t, ok)
}
