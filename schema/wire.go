package schema

// Fixed-stride wire format for the Schema blob written by LogWriter and read
// back by LogReader / the stream schema handshake.
//
//	header:        endian:u8, entry_count:u16                              ( 3 bytes)
//	entry record:  id:u16, payload_size:u16, field_count:u16,
//	               name[64], description[128], field[16]×70                (1318 bytes)
//	field record:  name[64], offset:u16, size:u16, type:u8, count:u8        (  70 bytes)
//	enum record:   entry_id:u16, field_index:u16, label_count:u8,
//	               labels[64]×32                                           (2053 bytes)
//	bitfield rec:  entry_id:u16, field_index:u16, bit_count:u8,
//	               names[16]×32, starts[16], widths[16]                     ( 549 bytes)
//
// The wire struct layout itself is always little-endian, independent of the
// schema's Endian flag: that flag governs how packet *payload* fields are
// decoded, not how the schema description is serialized.
//
// Readers consume the two extension sections (enum, bitfield) only while at
// least one full record remains; running out of bytes before or within a
// section is treated as "no more extensions", never an error, so that older
// readers can skip metadata newer writers emit and writers can always emit
// both section counts for forward compatibility.

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/format"
)

const (
	headerSize      = 3
	fieldWireSize   = NameMax + 2 + 2 + 1 + 1 // 70
	entryHeaderSize = 2 + 2 + 2 + NameMax + DescMax
	entryWireSize   = entryHeaderSize + MaxFields*fieldWireSize // 1318
	enumWireSize    = 2 + 2 + 1 + EnumMaxLabels*EnumLabelMax    // 2053
	bitfieldWireSize = 2 + 2 + 1 + BitfieldMaxBit*BitNameMax + BitfieldMaxBit + BitfieldMaxBit // 549
)

func putString(dst []byte, s string, size int) {
	n := size - 1
	if n > len(s) {
		n = len(s)
	}
	copy(dst, s[:n])
	for i := n; i < size; i++ {
		dst[i] = 0
	}
}

func getString(src []byte) string {
	i := 0
	for ; i < len(src); i++ {
		if src[i] == 0 {
			break
		}
	}
	s := string(src[:i])
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}

	return s
}

// Bytes serializes the schema into its fixed-stride wire format, always
// emitting both extension-section counts even when zero.
func (s *Schema) Bytes() []byte {
	entries := s.Entries()

	total := headerSize + len(entries)*entryWireSize
	buf := make([]byte, total)

	buf[0] = byte(s.Endian)
	binary.LittleEndian.PutUint16(buf[1:3], uint16(len(entries)))

	pos := headerSize
	for _, e := range entries {
		rec := buf[pos : pos+entryWireSize]
		binary.LittleEndian.PutUint16(rec[0:2], e.ID)
		binary.LittleEndian.PutUint16(rec[2:4], e.PayloadSize)
		binary.LittleEndian.PutUint16(rec[4:6], uint16(len(e.Fields)))
		putString(rec[6:6+NameMax], e.Name, NameMax)
		putString(rec[6+NameMax:6+NameMax+DescMax], e.Description, DescMax)

		for fi, f := range e.Fields {
			if fi >= MaxFields {
				break
			}
			frec := rec[entryHeaderSize+fi*fieldWireSize : entryHeaderSize+(fi+1)*fieldWireSize]
			putString(frec[0:NameMax], f.Name, NameMax)
			binary.LittleEndian.PutUint16(frec[NameMax:NameMax+2], f.Offset)
			binary.LittleEndian.PutUint16(frec[NameMax+2:NameMax+4], f.Size)
			frec[NameMax+4] = byte(f.Type)
			frec[NameMax+5] = f.Count
		}

		pos += entryWireSize
	}

	var enumRecs, bitRecs [][]byte
	for _, e := range entries {
		for fi, f := range e.Fields {
			if fi >= MaxFields {
				break
			}
			if len(f.EnumLabels) > 0 {
				enumRecs = append(enumRecs, encodeEnumRecord(e.ID, fi, f.EnumLabels))
			}
			if len(f.BitFields) > 0 {
				bitRecs = append(bitRecs, encodeBitfieldRecord(e.ID, fi, f.BitFields))
			}
		}
	}

	out := make([]byte, 0, len(buf)+2+len(enumRecs)*enumWireSize+2+len(bitRecs)*bitfieldWireSize)
	out = append(out, buf...)

	var cnt [2]byte
	binary.LittleEndian.PutUint16(cnt[:], uint16(len(enumRecs)))
	out = append(out, cnt[:]...)
	for _, r := range enumRecs {
		out = append(out, r...)
	}

	binary.LittleEndian.PutUint16(cnt[:], uint16(len(bitRecs)))
	out = append(out, cnt[:]...)
	for _, r := range bitRecs {
		out = append(out, r...)
	}

	return out
}

func encodeEnumRecord(entryID uint16, fieldIndex int, labels []string) []byte {
	rec := make([]byte, enumWireSize)
	binary.LittleEndian.PutUint16(rec[0:2], entryID)
	binary.LittleEndian.PutUint16(rec[2:4], uint16(fieldIndex))

	n := len(labels)
	if n > EnumMaxLabels {
		n = EnumMaxLabels
	}
	rec[4] = byte(n)

	for i := 0; i < n; i++ {
		putString(rec[5+i*EnumLabelMax:5+(i+1)*EnumLabelMax], labels[i], EnumLabelMax)
	}

	return rec
}

func encodeBitfieldRecord(entryID uint16, fieldIndex int, bits []BitDef) []byte {
	rec := make([]byte, bitfieldWireSize)
	binary.LittleEndian.PutUint16(rec[0:2], entryID)
	binary.LittleEndian.PutUint16(rec[2:4], uint16(fieldIndex))

	n := len(bits)
	if n > BitfieldMaxBit {
		n = BitfieldMaxBit
	}
	rec[4] = byte(n)

	namesOff := 5
	startsOff := namesOff + BitfieldMaxBit*BitNameMax
	widthsOff := startsOff + BitfieldMaxBit

	for i := 0; i < n; i++ {
		putString(rec[namesOff+i*BitNameMax:namesOff+(i+1)*BitNameMax], bits[i].Name, BitNameMax)
		rec[startsOff+i] = bits[i].Start
		rec[widthsOff+i] = bits[i].Width
	}

	return rec
}

// ParseSchema decodes a schema blob produced by Bytes. A truncated header or
// entry record returns errs.ErrSchemaTruncated; the two optional extension
// sections are best-effort — running out of bytes before or mid-section
// simply stops parsing extensions without error, and a metadata record
// naming an entry id or field index not present in the schema is skipped
// silently (this permits schema subsetting).
func ParseSchema(data []byte) (*Schema, error) {
	if len(data) < headerSize {
		return nil, errs.ErrSchemaTruncated
	}

	endian := format.Endian(data[0])
	entryCount := binary.LittleEndian.Uint16(data[1:3])

	pos := headerSize
	entries := make([]SchemaEntry, 0, entryCount)
	seen := make(map[uint16]bool, entryCount)

	for i := 0; i < int(entryCount); i++ {
		if pos+entryWireSize > len(data) {
			return nil, errs.ErrSchemaTruncated
		}
		rec := data[pos : pos+entryWireSize]

		id := binary.LittleEndian.Uint16(rec[0:2])
		if seen[id] {
			pos += entryWireSize
			continue
		}
		seen[id] = true
		payloadSize := binary.LittleEndian.Uint16(rec[2:4])
		fieldCount := binary.LittleEndian.Uint16(rec[4:6])
		name := getString(rec[6 : 6+NameMax])
		desc := getString(rec[6+NameMax : 6+NameMax+DescMax])

		n := int(fieldCount)
		if n > MaxFields {
			n = MaxFields
		}
		fields := make([]FieldDef, 0, n)
		for fi := 0; fi < n; fi++ {
			frec := rec[entryHeaderSize+fi*fieldWireSize : entryHeaderSize+(fi+1)*fieldWireSize]
			fields = append(fields, FieldDef{
				Name:   getString(frec[0:NameMax]),
				Offset: binary.LittleEndian.Uint16(frec[NameMax : NameMax+2]),
				Size:   binary.LittleEndian.Uint16(frec[NameMax+2 : NameMax+4]),
				Type:   format.BtelemType(frec[NameMax+4]),
				Count:  frec[NameMax+5],
			})
		}

		entries = append(entries, SchemaEntry{
			ID:          id,
			Name:        name,
			Description: desc,
			PayloadSize: payloadSize,
			Fields:      fields,
		})
		pos += entryWireSize
	}

	s := New(endian, entries...)

	// Optional enum section.
	if pos+2 <= len(data) {
		count := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		for i := 0; i < int(count); i++ {
			if pos+enumWireSize > len(data) {
				break
			}
			rec := data[pos : pos+enumWireSize]
			pos += enumWireSize

			entryID := binary.LittleEndian.Uint16(rec[0:2])
			fieldIdx := int(binary.LittleEndian.Uint16(rec[2:4]))
			labelCount := int(rec[4])

			labels := make([]string, 0, labelCount)
			for li := 0; li < labelCount; li++ {
				off := 5 + li*EnumLabelMax
				labels = append(labels, getString(rec[off:off+EnumLabelMax]))
			}

			applyEnumLabels(s, entryID, fieldIdx, labels)
		}
	}

	// Optional bitfield section.
	if pos+2 <= len(data) {
		count := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		for i := 0; i < int(count); i++ {
			if pos+bitfieldWireSize > len(data) {
				break
			}
			rec := data[pos : pos+bitfieldWireSize]
			pos += bitfieldWireSize

			entryID := binary.LittleEndian.Uint16(rec[0:2])
			fieldIdx := int(binary.LittleEndian.Uint16(rec[2:4]))
			bitCount := int(rec[4])

			namesOff := 5
			startsOff := namesOff + BitfieldMaxBit*BitNameMax
			widthsOff := startsOff + BitfieldMaxBit

			bits := make([]BitDef, 0, bitCount)
			for bi := 0; bi < bitCount; bi++ {
				name := getString(rec[namesOff+bi*BitNameMax : namesOff+(bi+1)*BitNameMax])
				bits = append(bits, BitDef{
					Name:  name,
					Start: rec[startsOff+bi],
					Width: rec[widthsOff+bi],
				})
			}

			applyBitFields(s, entryID, fieldIdx, bits)
		}
	}

	return s, nil
}

func applyEnumLabels(s *Schema, entryID uint16, fieldIdx int, labels []string) {
	e, ok := s.entries[entryID]
	if !ok || fieldIdx < 0 || fieldIdx >= len(e.Fields) {
		return
	}
	e.Fields[fieldIdx].EnumLabels = labels
}

func applyBitFields(s *Schema, entryID uint16, fieldIdx int, bits []BitDef) {
	e, ok := s.entries[entryID]
	if !ok || fieldIdx < 0 || fieldIdx >= len(e.Fields) {
		return
	}
	e.Fields[fieldIdx].BitFields = bits
}
