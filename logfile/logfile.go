// Package logfile implements the append-only log file format: a magic-tagged
// header, a schema blob, a sequence of packets, and a footer index enabling
// O(log n) time-range seeks.
package logfile

import (
	"encoding/binary"
	"fmt"

	"github.com/btelem/btelem/errs"
)

// Magic is the 4-byte file-format tag every log file starts with.
var Magic = [4]byte{'B', 'T', 'L', 'M'}

// Version is the only file-header version this package writes or reads.
const Version uint16 = 1

// indexMagic tags a valid footer, distinguishing it from a truncated write
// or unrelated trailing bytes.
const indexMagic uint32 = 0x494C5442 // "BTLI"

const (
	fileHeaderSize  = 4 + 2 + 4 // magic, version, schema_len
	indexEntrySize  = 8 + 8 + 8 + 4
	indexFooterSize = 8 + 4 + 4
)

// IndexEntry is one footer-index record: the file offset of a packet and
// its (ts_min, ts_max, entry_count) summary, letting Reader skip packets
// that can't possibly overlap a queried time range without reading them.
type IndexEntry struct {
	Offset     uint64
	TSMin      uint64
	TSMax      uint64
	EntryCount uint32
}

func putIndexEntry(dst []byte, ie IndexEntry) {
	binary.LittleEndian.PutUint64(dst[0:8], ie.Offset)
	binary.LittleEndian.PutUint64(dst[8:16], ie.TSMin)
	binary.LittleEndian.PutUint64(dst[16:24], ie.TSMax)
	binary.LittleEndian.PutUint32(dst[24:28], ie.EntryCount)
}

func parseIndexEntry(src []byte) IndexEntry {
	return IndexEntry{
		Offset:     binary.LittleEndian.Uint64(src[0:8]),
		TSMin:      binary.LittleEndian.Uint64(src[8:16]),
		TSMax:      binary.LittleEndian.Uint64(src[16:24]),
		EntryCount: binary.LittleEndian.Uint32(src[24:28]),
	}
}

func putFooter(dst []byte, indexOffset uint64, count uint32) {
	binary.LittleEndian.PutUint64(dst[0:8], indexOffset)
	binary.LittleEndian.PutUint32(dst[8:12], count)
	binary.LittleEndian.PutUint32(dst[12:16], indexMagic)
}

func parseFooter(src []byte) (indexOffset uint64, count uint32, magic uint32) {
	return binary.LittleEndian.Uint64(src[0:8]), binary.LittleEndian.Uint32(src[8:12]), binary.LittleEndian.Uint32(src[12:16])
}

func checkMagic(got [4]byte) error {
	if got != Magic {
		return fmt.Errorf("logfile: bad magic %q: %w", got[:], errs.ErrBadMagic)
	}

	return nil
}
