package packet

import "github.com/btelem/btelem/internal/pool"

// BuildEntry is one (id, timestamp, payload) tuple supplied to Build.
type BuildEntry struct {
	ID        uint16
	Timestamp uint64
	Payload   []byte
}

// Build assembles a packet from entries in the order supplied: timestamps
// are neither sorted nor validated. The result always carries
// Dropped = 0 — producer-reported drops only ever appear in packets a
// producer itself builds and sends; this is the consumer-side encoder used
// by LogWriter.WriteEntries and tests.
func Build(entries []BuildEntry) []byte {
	payloadSize := 0
	for _, e := range entries {
		payloadSize += len(e.Payload)
	}

	bb := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(bb)

	total := HeaderSize + len(entries)*EntryHeaderSize + payloadSize
	bb.SetLength(0)
	bb.ExtendOrGrow(total)
	buf := bb.Bytes()[:total]

	hdr := Header{
		EntryCount:  uint16(len(entries)),
		PayloadSize: uint32(payloadSize),
	}
	hdr.put(buf[0:HeaderSize])

	tableOff := HeaderSize
	payloadBase := HeaderSize + len(entries)*EntryHeaderSize
	offset := uint32(0)
	for i, e := range entries {
		eh := EntryHeader{
			ID:            e.ID,
			PayloadSize:   uint16(len(e.Payload)),
			PayloadOffset: offset,
			Timestamp:     e.Timestamp,
		}
		eh.put(buf[tableOff+i*EntryHeaderSize : tableOff+(i+1)*EntryHeaderSize])
		copy(buf[payloadBase+int(offset):], e.Payload)
		offset += uint32(len(e.Payload))
	}

	out := make([]byte, total)
	copy(out, buf)

	return out
}
