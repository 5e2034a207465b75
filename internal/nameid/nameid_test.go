package nameid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash("temp"), Hash("temp"))
	assert.NotEqual(t, Hash("temp"), Hash("rpm"))
}

func TestTable_PutGet(t *testing.T) {
	tbl := NewTable[uint16]()
	tbl.Put("temp", 7)
	tbl.Put("rpm", 8)

	id, ok := tbl.Get("temp")
	assert.True(t, ok)
	assert.Equal(t, uint16(7), id)

	id, ok = tbl.Get("rpm")
	assert.True(t, ok)
	assert.Equal(t, uint16(8), id)

	_, ok = tbl.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, tbl.Len())
}

func TestTable_Overwrite(t *testing.T) {
	tbl := NewTable[int]()
	tbl.Put("a", 1)
	tbl.Put("a", 2)

	v, ok := tbl.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, tbl.Len())
}
