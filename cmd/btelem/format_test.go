package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btelem/btelem/entry"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ns   uint64
		want string
	}{
		{500, "500ns"},
		{2_500, "2.5us"},
		{2_500_000, "2.5ms"},
		{2_500_000_000, "2.50s"},
		{90_000_000_000, "1.5m"},
		{7_200_000_000_000, "2.0h"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatDuration(c.ns))
	}
}

func TestFormatEntry_KnownName(t *testing.T) {
	e := entry.DecodedEntry{
		ID:        1,
		Timestamp: 1_500_000_000,
		Name:      "imu",
		Fields:    map[string]any{"temp": 21.5},
	}
	got := formatEntry(e)
	assert.Contains(t, got, "imu")
	assert.Contains(t, got, "temp=21.5")
}

func TestFormatEntry_UnknownID(t *testing.T) {
	e := entry.DecodedEntry{ID: 42, Timestamp: 0, Fields: map[string]any{}}
	got := formatEntry(e)
	assert.Contains(t, got, "id=42")
}
