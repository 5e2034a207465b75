package logfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/btelem/btelem/internal/options"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
)

// Writer appends packets to a log file and writes a footer index on Close.
// Not safe for concurrent use: a single producer writes a log file.
type Writer struct {
	f      *os.File
	path   string
	index  []IndexEntry
	logger *log.Logger
}

// WriterOption configures a Writer at construction time.
type WriterOption = options.Option[*Writer]

// WithLogger overrides the logger WritePacket uses to report malformed
// input. The default is log.Default().
func WithLogger(logger *log.Logger) WriterOption {
	return options.NoError(func(w *Writer) {
		w.logger = logger
	})
}

// Create opens path for writing, emitting the file header and sch's wire
// schema immediately.
func Create(path string, sch *schema.Schema, opts ...WriterOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("logfile: create %s: %w", path, err)
	}

	blob := sch.Bytes()

	var hdr [fileHeaderSize]byte
	copy(hdr[0:4], Magic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], Version)
	binary.LittleEndian.PutUint32(hdr[6:10], uint32(len(blob)))

	if _, err := f.Write(hdr[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("logfile: write header: %w", err)
	}
	if _, err := f.Write(blob); err != nil {
		f.Close()
		return nil, fmt.Errorf("logfile: write schema: %w", err)
	}

	w := &Writer{f: f, path: path, logger: log.Default()}
	_ = options.Apply(w, opts...)

	return w, nil
}

// WritePacket appends a pre-built packet (e.g. from packet.Build) and
// records its time range and offset in the in-memory footer index.
func (w *Writer) WritePacket(data []byte) error {
	offset, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("logfile: tell: %w", err)
	}

	entryCount := uint32(0)
	if len(data) >= 2 {
		entryCount = uint32(binary.LittleEndian.Uint16(data[0:2]))
	} else {
		w.logger.Printf("logfile: %s: packet shorter than header, writing with entry_count=0", w.path)
	}
	tsMin, tsMax := packet.TimeRange(data)

	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("logfile: write packet: %w", err)
	}

	w.index = append(w.index, IndexEntry{
		Offset:     uint64(offset),
		TSMin:      tsMin,
		TSMax:      tsMax,
		EntryCount: entryCount,
	})

	return nil
}

// WriteEntries builds a packet from entries via packet.Build and writes it.
func (w *Writer) WriteEntries(entries []packet.BuildEntry) error {
	return w.WritePacket(packet.Build(entries))
}

// Flush flushes any OS-buffered writes without closing the file.
func (w *Writer) Flush() error {
	return w.f.Sync()
}

// Close writes the footer index and closes the underlying file. A writer
// that never reaches Close (crash, power loss) leaves a file Reader can
// still read via its sequential-scan fallback, just without fast seeking.
func (w *Writer) Close() error {
	indexOffset, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("logfile: tell: %w", err)
	}

	buf := make([]byte, 0, len(w.index)*indexEntrySize+indexFooterSize)
	for _, ie := range w.index {
		var rec [indexEntrySize]byte
		putIndexEntry(rec[:], ie)
		buf = append(buf, rec[:]...)
	}

	var footer [indexFooterSize]byte
	putFooter(footer[:], uint64(indexOffset), uint32(len(w.index)))
	buf = append(buf, footer[:]...)

	if _, err := w.f.Write(buf); err != nil {
		w.f.Close()
		return fmt.Errorf("logfile: write footer: %w", err)
	}

	return w.f.Close()
}
