package packet

import (
	"log"

	"github.com/btelem/btelem/entry"
	"github.com/btelem/btelem/schema"
)

// Result is the outcome of decoding one packet.
type Result struct {
	Entries []entry.DecodedEntry
	Dropped uint32
}

// Decode performs exactly one pass over data's entry-header table. It never
// returns an error: a packet shorter than a header yields an empty Result
// with Dropped = 0; an entry whose payload range
// overruns the packet is skipped (logged once) while later entries still
// process; an unknown entry id produces an opaque DecodedEntry with an empty
// field map instead of failing.
//
// If filterIDs is non-nil, entries whose id is absent from the set are
// skipped without their payload ever being sliced or copied.
func Decode(sch *schema.Schema, data []byte, filterIDs map[uint16]struct{}) Result {
	if len(data) < HeaderSize {
		return Result{}
	}

	hdr := parseHeader(data)
	tableOff := HeaderSize
	payloadBase := tableOff + int(hdr.EntryCount)*EntryHeaderSize

	entries := make([]entry.DecodedEntry, 0, hdr.EntryCount)
	overrunLogged := false

	for i := 0; i < int(hdr.EntryCount); i++ {
		off := tableOff + i*EntryHeaderSize
		if off+EntryHeaderSize > len(data) {
			break
		}
		eh := parseEntryHeader(data[off : off+EntryHeaderSize])

		if filterIDs != nil {
			if _, want := filterIDs[eh.ID]; !want {
				continue
			}
		}

		start := payloadBase + int(eh.PayloadOffset)
		end := start + int(eh.PayloadSize)
		if start < 0 || end > len(data) || start > end {
			if !overrunLogged {
				log.Printf("packet: entry id %d payload [%d:%d) overruns packet of %d bytes, skipping", eh.ID, start, end, len(data))
				overrunLogged = true
			}
			continue
		}
		payload := data[start:end]

		de := entry.DecodedEntry{
			ID:          eh.ID,
			Timestamp:   eh.Timestamp,
			PayloadSize: eh.PayloadSize,
			RawPayload:  append([]byte(nil), payload...),
		}

		if se, ok := sch.Entry(eh.ID); ok {
			de.Name = se.Name
			de.Fields = sch.DecodeFields(se, payload)
		} else {
			de.Fields = map[string]schema.Value{}
		}

		entries = append(entries, de)
	}

	return Result{Entries: entries, Dropped: hdr.Dropped}
}

// DecodeLegacy is Decode for the 8-byte legacy packet header (no
// dropped/reserved fields). There is no reliable way to distinguish the two
// header shapes from the bytes alone, so callers must know in advance which
// one a given stream uses and call Decode or DecodeLegacy accordingly.
func DecodeLegacy(sch *schema.Schema, data []byte, filterIDs map[uint16]struct{}) Result {
	if len(data) < LegacyHeaderSize {
		return Result{}
	}

	hdr := parseLegacyHeader(data)
	tableOff := LegacyHeaderSize
	payloadBase := tableOff + int(hdr.EntryCount)*EntryHeaderSize

	entries := make([]entry.DecodedEntry, 0, hdr.EntryCount)
	overrunLogged := false

	for i := 0; i < int(hdr.EntryCount); i++ {
		off := tableOff + i*EntryHeaderSize
		if off+EntryHeaderSize > len(data) {
			break
		}
		eh := parseEntryHeader(data[off : off+EntryHeaderSize])

		if filterIDs != nil {
			if _, want := filterIDs[eh.ID]; !want {
				continue
			}
		}

		start := payloadBase + int(eh.PayloadOffset)
		end := start + int(eh.PayloadSize)
		if start < 0 || end > len(data) || start > end {
			if !overrunLogged {
				log.Printf("packet: entry id %d payload [%d:%d) overruns packet of %d bytes, skipping", eh.ID, start, end, len(data))
				overrunLogged = true
			}
			continue
		}
		payload := data[start:end]

		de := entry.DecodedEntry{
			ID:          eh.ID,
			Timestamp:   eh.Timestamp,
			PayloadSize: eh.PayloadSize,
			RawPayload:  append([]byte(nil), payload...),
		}

		if se, ok := sch.Entry(eh.ID); ok {
			de.Name = se.Name
			de.Fields = sch.DecodeFields(se, payload)
		} else {
			de.Fields = map[string]schema.Value{}
		}

		entries = append(entries, de)
	}

	return Result{Entries: entries, Dropped: 0}
}
