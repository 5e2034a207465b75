package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBtelemType_String(t *testing.T) {
	assert.Equal(t, "U8", U8.String())
	assert.Equal(t, "F64", F64.String())
	assert.Equal(t, "BITFIELD", BITFIELD.String())
	assert.Equal(t, "UNKNOWN", BtelemType(200).String())
}

func TestBtelemType_IsValid(t *testing.T) {
	assert.True(t, U8.IsValid())
	assert.True(t, BITFIELD.IsValid())
	assert.False(t, BtelemType(14).IsValid())
}

func TestBtelemType_ScalarSize(t *testing.T) {
	cases := []struct {
		t    BtelemType
		want int
	}{
		{U8, 1}, {I8, 1}, {BOOL, 1}, {ENUM, 1},
		{U16, 2}, {I16, 2},
		{U32, 4}, {I32, 4}, {F32, 4},
		{U64, 8}, {I64, 8}, {F64, 8},
		{BYTES, 0}, {BITFIELD, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.t.ScalarSize(), c.t.String())
	}
}

func TestEndian_String(t *testing.T) {
	assert.Equal(t, "little", LittleEndian.String())
	assert.Equal(t, "big", BigEndian.String())
}
