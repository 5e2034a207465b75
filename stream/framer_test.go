package stream

import (
	"bytes"
	"encoding/binary"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(payload)))
	copy(out[4:], payload)

	return out
}

func TestFramer_SinglePacketOneFeed(t *testing.T) {
	f := NewFramer(1 << 20)
	defer f.Close()

	packets := f.Feed(frame([]byte("hello")))
	require.Len(t, packets, 1)
	assert.Equal(t, []byte("hello"), packets[0])
}

func TestFramer_SplitAcrossFeeds(t *testing.T) {
	f := NewFramer(1 << 20)
	defer f.Close()

	whole := frame([]byte("hello world"))

	packets := f.Feed(whole[:6])
	assert.Empty(t, packets)

	packets = f.Feed(whole[6:])
	require.Len(t, packets, 1)
	assert.Equal(t, []byte("hello world"), packets[0])
}

func TestFramer_MultiplePacketsOneFeed(t *testing.T) {
	f := NewFramer(1 << 20)
	defer f.Close()

	var buf []byte
	buf = append(buf, frame([]byte("a"))...)
	buf = append(buf, frame([]byte("bb"))...)
	buf = append(buf, frame([]byte("ccc"))...)

	packets := f.Feed(buf)
	require.Len(t, packets, 3)
	assert.Equal(t, []byte("a"), packets[0])
	assert.Equal(t, []byte("bb"), packets[1])
	assert.Equal(t, []byte("ccc"), packets[2])
}

func TestFramer_OversizedLengthResyncs(t *testing.T) {
	f := NewFramer(16)
	defer f.Close()

	bad := frame(make([]byte, 64))
	good := frame([]byte("ok"))

	packets := f.Feed(bad)
	assert.Empty(t, packets)
	assert.Equal(t, uint64(1), f.ResyncCount())

	packets = f.Feed(good)
	require.Len(t, packets, 1)
	assert.Equal(t, []byte("ok"), packets[0])
}

func TestFramer_WithLoggerOverridesResyncLog(t *testing.T) {
	var out bytes.Buffer
	f := NewFramer(16, WithLogger(log.New(&out, "", 0)))
	defer f.Close()

	f.Feed(frame(make([]byte, 64)))
	assert.Contains(t, out.String(), "resyncing")
}

func TestFramer_EmptyPacketPayload(t *testing.T) {
	f := NewFramer(1 << 20)
	defer f.Close()

	packets := f.Feed(frame(nil))
	require.Len(t, packets, 1)
	assert.Empty(t, packets[0])
}
