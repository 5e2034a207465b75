package schema

import (
	"math"

	"github.com/btelem/btelem/endian"
	"github.com/btelem/btelem/format"
)

// Value is the dynamic result of decoding one field. It holds exactly one of:
// a scalar (u8..i64, f32/f64, bool), a dense slice of the same ([]uint64,
// []int64, []float64, []bool — chosen by the field's underlying numeric kind),
// raw bytes (BYTES), an enum label string or raw integer fallback, or a
// bitfield map (map[string]uint64) / raw integer fallback. Event-log
// consumers type-switch over it; capture column extractors also receive it
// from DecodeField and convert it into their typed output columns.
type Value = any

// engine returns the byte-order decoder for this schema's payload fields.
func (s *Schema) engine() endian.EndianEngine {
	if s.Endian == format.BigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// NativeByteOrder reports whether this schema's payload fields are encoded
// in the host's native byte order. A mismatch costs every DecodeField call
// a byte swap; callers doing bulk extraction (capture's column readers) can
// use this to decide whether that cost is worth avoiding by re-encoding the
// source at the native order instead.
func (s *Schema) NativeByteOrder() bool {
	return endian.CompareNativeEndian(s.engine())
}

// DecodeFields decodes every field of entry's schema out of payload,
// returning a field-name -> Value map. The map does not record the schema's
// field order; entry.Fields holds that order. Offsets are bounds-checked
// against payload; a field whose declared [offset, offset+size) doesn't fit
// is simply omitted from the result (the packet-level decode already
// validated the whole entry against the packet, so this only guards against
// a schema/payload_size mismatch).
func (s *Schema) DecodeFields(entry SchemaEntry, payload []byte) map[string]Value {
	out := make(map[string]Value, len(entry.Fields))
	for _, f := range entry.Fields {
		if v, ok := s.DecodeField(f, payload); ok {
			out[f.Name] = v
		}
	}

	return out
}

// DecodeField decodes a single field out of payload, returning false if its
// declared [offset, offset+size) doesn't fit within payload. Used directly
// by capture's column extractors, which call it on the RawPayload of each
// DecodedEntry that packet.Decode produced for the queried entry id.
func (s *Schema) DecodeField(f FieldDef, payload []byte) (Value, bool) {
	end := int(f.Offset) + int(f.Size)
	if int(f.Offset) < 0 || end > len(payload) {
		return nil, false
	}
	raw := payload[f.Offset:end]
	eng := s.engine()

	switch f.Type {
	case format.BYTES:
		return append([]byte(nil), raw...), true
	case format.BITFIELD:
		return decodeBitfield(eng, raw, f), true
	case format.ENUM:
		return decodeEnum(raw, f), true
	default:
		return decodeNumeric(eng, raw, f), true
	}
}

func decodeEnum(raw []byte, f FieldDef) Value {
	if len(raw) == 0 {
		return uint64(0)
	}
	v := raw[0]
	if int(v) < len(f.EnumLabels) {
		return f.EnumLabels[v]
	}

	return uint64(v)
}

func decodeBitfield(eng endian.EndianEngine, raw []byte, f FieldDef) Value {
	var v uint64
	switch len(raw) {
	case 1:
		v = uint64(raw[0])
	case 2:
		v = uint64(eng.Uint16(raw))
	case 4:
		v = uint64(eng.Uint32(raw))
	default:
		return append([]byte(nil), raw...)
	}

	if len(f.BitFields) == 0 {
		return v
	}

	bits := make(map[string]uint64, len(f.BitFields))
	for _, bd := range f.BitFields {
		mask := uint64(1)<<bd.Width - 1
		bits[bd.Name] = (v >> bd.Start) & mask
	}

	return bits
}

func decodeNumeric(eng endian.EndianEngine, raw []byte, f FieldDef) Value {
	elemSize := f.Type.ScalarSize()
	if elemSize == 0 {
		return append([]byte(nil), raw...)
	}

	count := int(f.Count)
	if count < 1 {
		count = 1
	}

	if count == 1 {
		return decodeScalar(eng, raw, f.Type)
	}

	switch f.Type {
	case format.F32, format.F64:
		out := make([]float64, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, decodeScalar(eng, raw[i*elemSize:], f.Type).(float64))
		}

		return out
	case format.I8, format.I16, format.I32, format.I64:
		out := make([]int64, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, decodeScalar(eng, raw[i*elemSize:], f.Type).(int64))
		}

		return out
	case format.BOOL:
		out := make([]bool, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, raw[i*elemSize] != 0)
		}

		return out
	default: // U8, U16, U32, U64
		out := make([]uint64, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, decodeScalar(eng, raw[i*elemSize:], f.Type).(uint64))
		}

		return out
	}
}

func decodeScalar(eng endian.EndianEngine, raw []byte, t format.BtelemType) Value {
	switch t {
	case format.U8:
		return uint64(raw[0])
	case format.U16:
		return uint64(eng.Uint16(raw))
	case format.U32:
		return uint64(eng.Uint32(raw))
	case format.U64:
		return eng.Uint64(raw)
	case format.I8:
		return int64(int8(raw[0]))
	case format.I16:
		return int64(int16(eng.Uint16(raw)))
	case format.I32:
		return int64(int32(eng.Uint32(raw)))
	case format.I64:
		return int64(eng.Uint64(raw))
	case format.F32:
		return float64(math.Float32frombits(eng.Uint32(raw)))
	case format.F64:
		return math.Float64frombits(eng.Uint64(raw))
	case format.BOOL:
		return raw[0] != 0
	default:
		return nil
	}
}
