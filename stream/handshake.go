package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btelem/btelem/schema"
)

// maxHandshakeSchemaSize bounds the schema blob a peer may send during the
// handshake, guarding against a corrupt or hostile length prefix forcing an
// unbounded allocation.
const maxHandshakeSchemaSize = 4 << 20 // 4MiB

// WriteHandshake writes sch's wire-encoded schema to w prefixed by its
// u32-le byte length, the framing a peer expects at the start of a
// connection.
func WriteHandshake(w io.Writer, sch *schema.Schema) error {
	payload := sch.Bytes()

	var prefix [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))

	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("stream: write handshake length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("stream: write handshake schema: %w", err)
	}

	return nil
}

// ReadHandshake reads the [u32_le length][schema bytes] framing a stream
// producer sends before its first packet, and parses the result with
// schema.ParseSchema.
func ReadHandshake(r io.Reader) (*schema.Schema, error) {
	var prefix [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("stream: read handshake length: %w", err)
	}

	length := binary.LittleEndian.Uint32(prefix[:])
	if length > maxHandshakeSchemaSize {
		return nil, fmt.Errorf("stream: handshake schema size %d exceeds max %d", length, maxHandshakeSchemaSize)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("stream: read handshake schema: %w", err)
	}

	sch, err := schema.ParseSchema(buf)
	if err != nil {
		return nil, fmt.Errorf("stream: parse handshake schema: %w", err)
	}

	return sch, nil
}
