package logfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/btelem/btelem/entry"
	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/internal/options"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
)

// Reader reads a log file written by Writer. Not safe for concurrent use.
type Reader struct {
	f         *os.File
	schema    *schema.Schema
	index     []IndexEntry // nil if no footer was found or it failed validation
	dataStart int64
	dataEnd   int64 // -1 until an index is loaded
	logger    *log.Logger
}

// ReaderOption configures a Reader at construction time.
type ReaderOption = options.Option[*Reader]

// WithReaderLogger overrides the logger Open uses to report a footer index
// that couldn't be loaded. The default is log.Default().
func WithReaderLogger(logger *log.Logger) ReaderOption {
	return options.NoError(func(r *Reader) {
		r.logger = logger
	})
}

// Open opens path, validates the file header, and parses the embedded
// schema. It also attempts to load the footer index; a missing or corrupt
// footer is not an error — Entries then falls back to a sequential scan,
// logged once since it costs query speed but never correctness.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logfile: open %s: %w", path, err)
	}

	r := &Reader{f: f, dataEnd: -1, logger: log.Default()}
	_ = options.Apply(r, opts...)

	if err := r.readHeader(); err != nil {
		f.Close()
		return nil, err
	}

	r.index = r.tryLoadIndex()
	if r.index == nil {
		r.logger.Printf("logfile: %s: no usable footer index, falling back to sequential scan", path)
	}

	return r, nil
}

func (r *Reader) readHeader() error {
	var hdr [fileHeaderSize]byte
	if _, err := io.ReadFull(r.f, hdr[:]); err != nil {
		return fmt.Errorf("logfile: read header: %w", errs.ErrFileTruncated)
	}

	var magic [4]byte
	copy(magic[:], hdr[0:4])
	if err := checkMagic(magic); err != nil {
		return err
	}

	version := binary.LittleEndian.Uint16(hdr[4:6])
	if version != Version {
		return fmt.Errorf("logfile: version %d: %w", version, errs.ErrUnsupportedVersion)
	}

	schemaLen := binary.LittleEndian.Uint32(hdr[6:10])
	blob := make([]byte, schemaLen)
	if _, err := io.ReadFull(r.f, blob); err != nil {
		return fmt.Errorf("logfile: read schema: %w", errs.ErrFileTruncated)
	}

	sch, err := schema.ParseSchema(blob)
	if err != nil {
		return fmt.Errorf("logfile: parse schema: %w", err)
	}
	r.schema = sch

	pos, err := r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("logfile: tell: %w", err)
	}
	r.dataStart = pos

	return nil
}

// Schema returns the schema embedded in the file's header.
func (r *Reader) Schema() *schema.Schema {
	return r.schema
}

// Index returns the footer index if one was loaded, or nil.
func (r *Reader) Index() []IndexEntry {
	return r.index
}

// tryLoadIndex reads and validates the trailing footer, returning nil on any
// failure (absent file, short file, bad magic, size mismatch, truncated
// entries) rather than propagating an error — a missing index only costs
// query speed, never correctness.
func (r *Reader) tryLoadIndex() []IndexEntry {
	fileSize, err := r.f.Seek(0, io.SeekEnd)
	if err != nil || fileSize < r.dataStart+indexFooterSize {
		return nil
	}

	if _, err := r.f.Seek(fileSize-indexFooterSize, io.SeekStart); err != nil {
		return nil
	}
	var footer [indexFooterSize]byte
	if _, err := io.ReadFull(r.f, footer[:]); err != nil {
		return nil
	}

	indexOffset, count, magic := parseFooter(footer[:])
	if magic != indexMagic {
		return nil
	}

	expected := int64(count)*indexEntrySize + indexFooterSize
	if int64(indexOffset)+expected != fileSize {
		return nil
	}

	if _, err := r.f.Seek(int64(indexOffset), io.SeekStart); err != nil {
		return nil
	}

	index := make([]IndexEntry, 0, count)
	buf := make([]byte, indexEntrySize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r.f, buf); err != nil {
			return nil
		}
		index = append(index, parseIndexEntry(buf))
	}

	r.dataEnd = int64(indexOffset)

	return index
}

// Query bounds a call to Entries: TSMin/TSMax are inclusive and either may
// be left zero-value to mean "unbounded" via HasTSMin/HasTSMax. FilterIDs,
// if non-nil, restricts decoding to the given entry ids.
type Query struct {
	TSMin, TSMax       uint64
	HasTSMin, HasTSMax bool
	FilterIDs          map[uint16]struct{}
}

// Entries iterates matching entries in file order, invoking fn for each.
// Returning a non-nil error from fn stops iteration and Entries returns it
// unwrapped. With an index present and a time bound given, only packets
// whose range could overlap [TSMin, TSMax] are read from disk; otherwise
// Entries scans every packet sequentially.
func (r *Reader) Entries(q Query, fn func(entry.DecodedEntry) error) error {
	if r.index != nil && (q.HasTSMin || q.HasTSMax) {
		return r.entriesIndexed(q, fn)
	}

	return r.entriesSequential(q, fn)
}

func (r *Reader) entriesSequential(q Query, fn func(entry.DecodedEntry) error) error {
	if _, err := r.f.Seek(r.dataStart, io.SeekStart); err != nil {
		return fmt.Errorf("logfile: seek: %w", err)
	}

	for {
		pos, err := r.f.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("logfile: tell: %w", err)
		}
		if r.dataEnd >= 0 && pos >= r.dataEnd {
			return nil
		}

		var hdr [packet.HeaderSize]byte
		n, err := io.ReadFull(r.f, hdr[:])
		if err != nil || n < packet.HeaderSize {
			return nil
		}

		entryCount := binary.LittleEndian.Uint16(hdr[0:2])
		payloadSize := binary.LittleEndian.Uint32(hdr[4:8])
		restSize := int(entryCount)*packet.EntryHeaderSize + int(payloadSize)

		rest := make([]byte, restSize)
		if _, err := io.ReadFull(r.f, rest); err != nil {
			return nil
		}

		pkt := append(hdr[:], rest...)
		res := packet.Decode(r.schema, pkt, q.FilterIDs)
		for _, e := range res.Entries {
			if err := fn(e); err != nil {
				return err
			}
		}
	}
}

// indexStart binary-searches r.index (assumed non-decreasing in TSMin/TSMax,
// true for any writer that appends packets in capture order) for the first
// entry whose TSMax could satisfy a lower bound of tsMin, so entriesIndexed
// and packetsIndexed can skip straight past everything that ends too early
// instead of scanning from the front of the file.
func (r *Reader) indexStart(hasMin bool, tsMin uint64) int {
	if !hasMin {
		return 0
	}

	return sort.Search(len(r.index), func(i int) bool {
		return r.index[i].TSMax >= tsMin
	})
}

func (r *Reader) entriesIndexed(q Query, fn func(entry.DecodedEntry) error) error {
	for i := r.indexStart(q.HasTSMin, q.TSMin); i < len(r.index); i++ {
		ie := r.index[i]
		if q.HasTSMax && ie.TSMin > q.TSMax {
			break
		}

		if _, err := r.f.Seek(int64(ie.Offset), io.SeekStart); err != nil {
			return fmt.Errorf("logfile: seek: %w", err)
		}

		head := make([]byte, packet.HeaderSize+int(ie.EntryCount)*packet.EntryHeaderSize)
		if _, err := io.ReadFull(r.f, head); err != nil {
			return nil
		}
		payloadSize := binary.LittleEndian.Uint32(head[4:8])

		payload := make([]byte, payloadSize)
		if _, err := io.ReadFull(r.f, payload); err != nil {
			return nil
		}

		pkt := append(head, payload...)
		res := packet.Decode(r.schema, pkt, q.FilterIDs)
		for _, e := range res.Entries {
			if q.HasTSMin && e.Timestamp < q.TSMin {
				continue
			}
			if q.HasTSMax && e.Timestamp > q.TSMax {
				continue
			}
			if err := fn(e); err != nil {
				return err
			}
		}
	}

	return nil
}

// Packets returns the raw bytes of every packet whose (ts_min, ts_max)
// could overlap [tsMin, tsMax] (unbounded sides pass hasMin/hasMax as
// false), read from disk. With a footer index loaded this prunes packets
// without reading them; without one, every packet is read and returned.
// Used by capture.FileCapture, which needs raw packet bytes rather than the
// decoded entries Entries produces.
func (r *Reader) Packets(tsMin uint64, hasMin bool, tsMax uint64, hasMax bool) ([][]byte, error) {
	if r.index != nil {
		return r.packetsIndexed(tsMin, hasMin, tsMax, hasMax)
	}

	return r.packetsSequential()
}

func (r *Reader) packetsIndexed(tsMin uint64, hasMin bool, tsMax uint64, hasMax bool) ([][]byte, error) {
	var out [][]byte
	for i := r.indexStart(hasMin, tsMin); i < len(r.index); i++ {
		ie := r.index[i]
		if hasMax && ie.TSMin > tsMax {
			break
		}

		if _, err := r.f.Seek(int64(ie.Offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("logfile: seek: %w", err)
		}

		head := make([]byte, packet.HeaderSize+int(ie.EntryCount)*packet.EntryHeaderSize)
		if _, err := io.ReadFull(r.f, head); err != nil {
			break
		}
		payloadSize := binary.LittleEndian.Uint32(head[4:8])

		payload := make([]byte, payloadSize)
		if _, err := io.ReadFull(r.f, payload); err != nil {
			break
		}

		out = append(out, append(head, payload...))
	}

	return out, nil
}

func (r *Reader) packetsSequential() ([][]byte, error) {
	if _, err := r.f.Seek(r.dataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("logfile: seek: %w", err)
	}

	var out [][]byte
	for {
		pos, err := r.f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("logfile: tell: %w", err)
		}
		if r.dataEnd >= 0 && pos >= r.dataEnd {
			break
		}

		var hdr [packet.HeaderSize]byte
		n, err := io.ReadFull(r.f, hdr[:])
		if err != nil || n < packet.HeaderSize {
			break
		}

		entryCount := binary.LittleEndian.Uint16(hdr[0:2])
		payloadSize := binary.LittleEndian.Uint32(hdr[4:8])
		restSize := int(entryCount)*packet.EntryHeaderSize + int(payloadSize)

		rest := make([]byte, restSize)
		if _, err := io.ReadFull(r.f, rest); err != nil {
			break
		}

		out = append(out, append(hdr[:], rest...))
	}

	return out, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
