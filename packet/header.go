// Package packet implements the packed-batch packet codec: Build constructs
// a packet from a batch of entries, Decode parses one back, plus the two
// packet-header wire shapes producers may emit.
//
// Layout: [packet header][entry header × entry_count][payload blob]. All
// header and offset-table integers are little-endian on the wire regardless
// of the schema's payload endianness.
package packet

import "encoding/binary"

const (
	// HeaderSize is the current (v1) packet header: entry_count, flags,
	// payload_size, dropped, reserved.
	HeaderSize = 16
	// LegacyHeaderSize is the older 8-byte header producers may still emit:
	// entry_count, flags, payload_size, with no dropped/reserved fields.
	// Readers must be told explicitly which shape to expect — there is no
	// way to reliably auto-detect one from the other.
	LegacyHeaderSize = 8

	// EntryHeaderSize is the fixed per-entry header within the entry table.
	EntryHeaderSize = 16
)

// Header is the 16-byte packet header.
type Header struct {
	EntryCount  uint16
	Flags       uint16
	PayloadSize uint32
	Dropped     uint32
	Reserved    uint32
}

func (h Header) put(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], h.EntryCount)
	binary.LittleEndian.PutUint16(dst[2:4], h.Flags)
	binary.LittleEndian.PutUint32(dst[4:8], h.PayloadSize)
	binary.LittleEndian.PutUint32(dst[8:12], h.Dropped)
	binary.LittleEndian.PutUint32(dst[12:16], h.Reserved)
}

func parseHeader(src []byte) Header {
	return Header{
		EntryCount:  binary.LittleEndian.Uint16(src[0:2]),
		Flags:       binary.LittleEndian.Uint16(src[2:4]),
		PayloadSize: binary.LittleEndian.Uint32(src[4:8]),
		Dropped:     binary.LittleEndian.Uint32(src[8:12]),
		Reserved:    binary.LittleEndian.Uint32(src[12:16]),
	}
}

// parseLegacyHeader reads the 8-byte header shape, with Dropped/Reserved
// implicitly zero.
func parseLegacyHeader(src []byte) Header {
	return Header{
		EntryCount:  binary.LittleEndian.Uint16(src[0:2]),
		Flags:       binary.LittleEndian.Uint16(src[2:4]),
		PayloadSize: binary.LittleEndian.Uint32(src[4:8]),
	}
}

// EntryHeader is the fixed 16-byte per-entry descriptor within a packet's
// entry table.
type EntryHeader struct {
	ID            uint16
	PayloadSize   uint16
	PayloadOffset uint32
	Timestamp     uint64
}

func (h EntryHeader) put(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], h.ID)
	binary.LittleEndian.PutUint16(dst[2:4], h.PayloadSize)
	binary.LittleEndian.PutUint32(dst[4:8], h.PayloadOffset)
	binary.LittleEndian.PutUint64(dst[8:16], h.Timestamp)
}

func parseEntryHeader(src []byte) EntryHeader {
	return EntryHeader{
		ID:            binary.LittleEndian.Uint16(src[0:2]),
		PayloadSize:   binary.LittleEndian.Uint16(src[2:4]),
		PayloadOffset: binary.LittleEndian.Uint32(src[4:8]),
		Timestamp:     binary.LittleEndian.Uint64(src[8:16]),
	}
}

// TimeRange scans a packet's entry header table (the first EntryCount
// entries starting at HeaderSize) and returns the min/max timestamp,
// without touching the payload blob. Used by logfile.Writer to populate
// each footer index entry and by capture's TimeRange, which calls it on
// every held packet at query time; the live ring stores no per-packet time
// range.
// Returns (0, 0) for a packet with no entries.
func TimeRange(data []byte) (tsMin, tsMax uint64) {
	if len(data) < HeaderSize {
		return 0, 0
	}
	entryCount := binary.LittleEndian.Uint16(data[0:2])
	if entryCount == 0 {
		return 0, 0
	}

	tsMin = ^uint64(0)
	for i := 0; i < int(entryCount); i++ {
		off := HeaderSize + i*EntryHeaderSize
		if off+EntryHeaderSize > len(data) {
			break
		}
		ts := binary.LittleEndian.Uint64(data[off+8 : off+16])
		if ts < tsMin {
			tsMin = ts
		}
		if ts > tsMax {
			tsMax = ts
		}
	}
	if tsMin == ^uint64(0) {
		tsMin = 0
	}

	return tsMin, tsMax
}

// Size computes a packet's total on-wire byte length from its header:
// HeaderSize + entry_count*EntryHeaderSize + payload_size.
func Size(data []byte) int {
	if len(data) < HeaderSize {
		return 0
	}
	h := parseHeader(data)

	return HeaderSize + int(h.EntryCount)*EntryHeaderSize + int(h.PayloadSize)
}
