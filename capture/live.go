package capture

import (
	"encoding/binary"
	"log"

	"github.com/btelem/btelem/internal/options"
	"github.com/btelem/btelem/internal/pool"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
)

// defaultLiveMaxPackets and defaultLiveMaxFrameLen are the ring size and
// framing sanity bound a LiveCapture gets when the caller doesn't override
// them with WithMaxPackets/WithMaxFrameLen.
const (
	defaultLiveMaxPackets  = 4096
	defaultLiveMaxFrameLen = 1 << 20
)

// LiveCapture is a bounded, single-owner accumulator of raw packets fed
// from a live transport. It keeps no internal lock: capture instances are
// safe to move across goroutines but not to call concurrently on the same
// instance — the caller serializes ingest and query.
type LiveCapture struct {
	sch         *schema.Schema
	maxPackets  int
	maxFrameLen uint32
	filterIDs   map[uint16]bool
	logger      *log.Logger

	ring []packetRec

	truncatedPackets uint64
	truncatedEntries uint64

	buf *pool.ByteBuffer
}

type packetRec struct {
	data       []byte
	entryCount uint16
}

// LiveCaptureOption configures a LiveCapture at construction time.
type LiveCaptureOption = options.Option[*LiveCapture]

// WithMaxPackets bounds the ring to n packets; the oldest packet is evicted
// once the ring is full. Defaults to 4096.
func WithMaxPackets(n int) LiveCaptureOption {
	return options.NoError(func(lc *LiveCapture) {
		lc.maxPackets = n
	})
}

// WithMaxFrameLen bounds AddStream's length-prefix sanity check the same way
// stream.NewFramer's argument does. Defaults to 1<<20.
func WithMaxFrameLen(maxFrameLen uint32) LiveCaptureOption {
	return options.NoError(func(lc *LiveCapture) {
		lc.maxFrameLen = maxFrameLen
	})
}

// WithFilterIDs restricts AddPacket to retaining only packets whose leading
// entry belongs to ids. An empty or absent filter retains everything.
func WithFilterIDs(ids []uint16) LiveCaptureOption {
	return options.NoError(func(lc *LiveCapture) {
		if len(ids) == 0 {
			lc.filterIDs = nil
			return
		}
		m := make(map[uint16]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		lc.filterIDs = m
	})
}

// WithLogger overrides the logger AddStream uses to report resyncs. The
// default is log.Default().
func WithLogger(logger *log.Logger) LiveCaptureOption {
	return options.NoError(func(lc *LiveCapture) {
		lc.logger = logger
	})
}

// NewLiveCapture returns an empty LiveCapture over sch, configured by opts.
func NewLiveCapture(sch *schema.Schema, opts ...LiveCaptureOption) *LiveCapture {
	lc := &LiveCapture{
		sch:         sch,
		maxPackets:  defaultLiveMaxPackets,
		maxFrameLen: defaultLiveMaxFrameLen,
		logger:      log.Default(),
		buf:         pool.GetFrameBuffer(),
	}
	_ = options.Apply(lc, opts...)

	return lc
}

// Close returns the framing buffer to its pool. A LiveCapture must not be
// used after Close.
func (lc *LiveCapture) Close() {
	pool.PutFrameBuffer(lc.buf)
	lc.buf = nil
}

// AddPacket copies data in and pushes it onto the ring, tagging it with the
// entry count derived from its header. If the ring is already at capacity,
// the oldest packet is evicted first and TruncatedPackets/TruncatedEntries
// account for it.
//
// If WithFilterIDs was set, a packet whose leading entry's id isn't in the
// filter is dropped without being counted as truncated.
func (lc *LiveCapture) AddPacket(data []byte) {
	var entryCount uint16
	if len(data) >= 2 {
		entryCount = binary.LittleEndian.Uint16(data[0:2])
	}

	if lc.filterIDs != nil && entryCount > 0 && len(data) >= packet.HeaderSize+2 {
		leadID := binary.LittleEndian.Uint16(data[packet.HeaderSize : packet.HeaderSize+2])
		if !lc.filterIDs[leadID] {
			return
		}
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	if len(lc.ring) >= lc.maxPackets {
		evicted := lc.ring[0]
		lc.ring = lc.ring[1:]
		lc.truncatedPackets++
		lc.truncatedEntries += uint64(evicted.entryCount)
	}

	lc.ring = append(lc.ring, packetRec{data: cp, entryCount: entryCount})
}

// AddStream feeds data into the live capture's internal reassembly buffer,
// ingesting up to maxPending complete length-prefixed frames via AddPacket,
// and returns how many bytes of data were incorporated into those frames
// (the remainder, forming a partial trailing frame or frames beyond
// maxPending's budget, stays buffered for the next call).
//
// A length prefix exceeding maxFrameLen resyncs: the entire buffer is
// discarded and treated as consumed, matching the framing reset rule in
// package stream.
func (lc *LiveCapture) AddStream(data []byte, maxPending int) int {
	lc.buf.MustWrite(data)

	consumed := 0
	added := 0
	for added < maxPending {
		b := lc.buf.Bytes()
		if len(b) < 4 {
			break
		}

		length := binary.LittleEndian.Uint32(b[0:4])
		if length > lc.maxFrameLen {
			lc.logger.Printf("capture: frame length %d exceeds max %d, resyncing", length, lc.maxFrameLen)
			consumed += len(b)
			lc.buf.Reset()
			break
		}

		total := 4 + int(length)
		if len(b) < total {
			break
		}

		lc.AddPacket(b[4:total])
		added++
		consumed += total

		remaining := make([]byte, len(b)-total)
		copy(remaining, b[total:])
		lc.buf.Reset()
		lc.buf.MustWrite(remaining)
	}

	return consumed
}

// Clear empties the ring and resets the truncation counters.
func (lc *LiveCapture) Clear() {
	lc.ring = nil
	lc.truncatedPackets = 0
	lc.truncatedEntries = 0
}

// TruncatedPackets reports how many packets have been evicted by AddPacket
// since the last Clear.
func (lc *LiveCapture) TruncatedPackets() uint64 { return lc.truncatedPackets }

// TruncatedEntries reports how many entries were carried by evicted packets
// since the last Clear.
func (lc *LiveCapture) TruncatedEntries() uint64 { return lc.truncatedEntries }

func (lc *LiveCapture) packets() [][]byte {
	out := make([][]byte, len(lc.ring))
	for i, r := range lc.ring {
		out[i] = r.data
	}

	return out
}

// TimeRange returns the min/max timestamp across the ring's current contents.
func (lc *LiveCapture) TimeRange() (uint64, uint64) {
	return timeRangeOf(lc.packets())
}

// Series performs the same two-pass extraction as FileCapture.Series, over
// the ring's current contents.
func (lc *LiveCapture) Series(entryName, fieldName string, t0 uint64, hasT0 bool, t1 uint64, hasT1 bool) ([]uint64, any, error) {
	return series(lc.sch, lc.packets(), entryName, fieldName, bound{t0, hasT0}, bound{t1, hasT1})
}

// Table performs the same two-pass extraction as FileCapture.Table, over
// the ring's current contents.
func (lc *LiveCapture) Table(entryName string, t0 uint64, hasT0 bool, t1 uint64, hasT1 bool) ([]uint64, map[string]any, error) {
	return table(lc.sch, lc.packets(), entryName, bound{t0, hasT0}, bound{t1, hasT1})
}

// EntryCounts returns the total row count per entry name across the ring.
func (lc *LiveCapture) EntryCounts() map[string]uint64 {
	return entryCounts(lc.sch, lc.packets())
}
