// Package stream implements the stateful length-prefixed reassembly framer
// sitting in front of packet.Decode on a live byte stream.
package stream

import (
	"encoding/binary"
	"log"

	"github.com/btelem/btelem/internal/options"
	"github.com/btelem/btelem/internal/pool"
)

// lengthPrefixSize is the u32-le frame length prefix preceding every packet
// on the wire.
const lengthPrefixSize = 4

// Framer reassembles a byte stream of [u32_le length][packet bytes] frames
// into whole packets. It is not safe for concurrent use: a stream has a
// single reader.
type Framer struct {
	buf         *pool.ByteBuffer
	maxFrameLen uint32
	resyncCount uint64
	logger      *log.Logger
}

// FramerOption configures a Framer at construction time.
type FramerOption = options.Option[*Framer]

// WithLogger overrides the logger Feed uses to report resyncs. The default
// is log.Default().
func WithLogger(logger *log.Logger) FramerOption {
	return options.NoError(func(f *Framer) {
		f.logger = logger
	})
}

// NewFramer returns a Framer that resyncs (drops buffered bytes and starts
// scanning fresh) whenever a length prefix exceeds maxFrameLen. maxFrameLen
// should be set comfortably above the largest packet a producer is expected
// to emit; too tight a bound turns ordinary large packets into spurious
// resyncs.
func NewFramer(maxFrameLen uint32, opts ...FramerOption) *Framer {
	f := &Framer{
		buf:         pool.GetFrameBuffer(),
		maxFrameLen: maxFrameLen,
		logger:      log.Default(),
	}
	_ = options.Apply(f, opts...)

	return f
}

// Close returns the framer's internal buffer to its pool. A Framer must not
// be used after Close.
func (f *Framer) Close() {
	pool.PutFrameBuffer(f.buf)
	f.buf = nil
}

// ResyncCount reports how many times Feed has discarded buffered bytes after
// encountering an oversized length prefix.
func (f *Framer) ResyncCount() uint64 {
	return f.resyncCount
}

// Feed appends data to the framer's reassembly buffer and returns every
// complete packet it can now extract, in arrival order. Partial trailing
// bytes remain buffered for the next Feed call.
//
// A length prefix greater than maxFrameLen is treated as a framing error,
// not a malformed-but-recoverable packet: the entire buffer (including
// whatever came after the bad prefix) is discarded and ResyncCount is
// incremented, since there is no way to tell where the next valid frame
// boundary is once the length itself can't be trusted.
func (f *Framer) Feed(data []byte) [][]byte {
	f.buf.MustWrite(data)

	var packets [][]byte
	for {
		b := f.buf.Bytes()
		if len(b) < lengthPrefixSize {
			break
		}

		length := binary.LittleEndian.Uint32(b[0:lengthPrefixSize])
		if length > f.maxFrameLen {
			f.logger.Printf("stream: frame length %d exceeds max %d, resyncing", length, f.maxFrameLen)
			f.buf.Reset()
			f.resyncCount++
			break
		}

		total := lengthPrefixSize + int(length)
		if len(b) < total {
			break
		}

		packet := make([]byte, length)
		copy(packet, b[lengthPrefixSize:total])
		packets = append(packets, packet)

		remaining := make([]byte, len(b)-total)
		copy(remaining, b[total:])
		f.buf.Reset()
		f.buf.MustWrite(remaining)
	}

	return packets
}
