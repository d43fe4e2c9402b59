package ordinals

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/inscription-c/ordinals/cbor"
	"github.com/inscription-c/ordinals/internal/ordscript"
)

// Tag numbers, per the well-known field table. Values not listed here,
// whether even (reserved) or odd (ignored-safe), pass through untouched
// into Tags.Unknown.
const (
	TagContentType     byte = 1
	TagPointer         byte = 2
	TagParent          byte = 3
	TagMetadata        byte = 5
	TagMetaprotocol    byte = 7
	TagContentEncoding byte = 9
	TagDelegate        byte = 11
	TagRune            byte = 13
	TagNote            byte = 15
)

// UnknownTag preserves one (tag, data) pair this codec doesn't
// recognize, in its original wire order.
type UnknownTag struct {
	Tag  []byte
	Data []byte
}

// Tags is the typed view over an inscription's tag fields. A nil
// pointer/slice/Metadata means the field was absent, not present with
// a zero value.
type Tags struct {
	ContentType     *string
	Pointer         *uint64
	Parents         []InscriptionId
	Metadata        cbor.Value
	Metaprotocol    *string
	ContentEncoding *string
	Delegate        *InscriptionId
	Rune            *uint128.Uint128
	Note            *string
	Unknown         []UnknownTag
}

// TagPair is one on-script (tag-number-byte, chunk) pair, the unit the
// envelope codec reads and writes.
type TagPair struct {
	Tag  []byte
	Data []byte
}

// ErrMalformedEnvelope is returned by DecodeTags when a pointer or rune
// field's data is longer than its integer width (8 or 16 bytes). Bad
// UTF-8 is not checked; an unparseable parent/delegate id or CBOR
// metadata is reported through ErrMalformedInscriptionID or
// cbor.ErrMalformedCbor instead.
var ErrMalformedEnvelope = errors.New("ordinals: malformed envelope contents")

// EncodeTags renders t into an ordered list of (tag, chunk) pairs,
// each chunk at most ordscript.MaxScriptElementSize bytes, in the
// canonical field order: contentType, pointer, parent(s), metadata,
// metaprotocol, contentEncoding, delegate, rune, note, then unknown
// entries in their original order.
func EncodeTags(t Tags) ([]TagPair, error) {
	var pairs []TagPair

	emit := func(tag byte, data []byte) {
		pairs = append(pairs, chunk([]byte{tag}, data)...)
	}

	if t.ContentType != nil {
		emit(TagContentType, []byte(*t.ContentType))
	}
	if t.Pointer != nil {
		emit(TagPointer, trimTrailingZeros(encodeUintLE(*t.Pointer)))
	}
	for _, parent := range t.Parents {
		emit(TagParent, parent.EncodeBinary())
	}
	if t.Metadata != nil {
		data, err := cbor.Encode(t.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "encode metadata")
		}
		emit(TagMetadata, data)
	}
	if t.Metaprotocol != nil {
		emit(TagMetaprotocol, []byte(*t.Metaprotocol))
	}
	if t.ContentEncoding != nil {
		emit(TagContentEncoding, []byte(*t.ContentEncoding))
	}
	if t.Delegate != nil {
		emit(TagDelegate, t.Delegate.EncodeBinary())
	}
	if t.Rune != nil {
		emit(TagRune, trimTrailingZeros(encodeUint128LE(*t.Rune)))
	}
	if t.Note != nil {
		emit(TagNote, []byte(*t.Note))
	}
	for _, u := range t.Unknown {
		pairs = append(pairs, chunk(u.Tag, u.Data)...)
	}

	return pairs, nil
}

// chunk splits data into pieces of at most MaxScriptElementSize bytes,
// each tagged with tag, preserving order. A single empty chunk is
// still emitted for empty data so the field is present on the wire.
func chunk(tag []byte, data []byte) []TagPair {
	if len(data) == 0 {
		return []TagPair{{Tag: tag, Data: nil}}
	}
	var out []TagPair
	for len(data) > 0 {
		n := len(data)
		if n > ordscript.MaxScriptElementSize {
			n = ordscript.MaxScriptElementSize
		}
		out = append(out, TagPair{Tag: tag, Data: data[:n]})
		data = data[n:]
	}
	return out
}

// DecodeTags groups an ordered list of (tag, data) pairs by tag number,
// preserving order, and decodes each group into its typed field. For
// parent, each occurrence is decoded independently into a list element
// instead of being concatenated with the others.
func DecodeTags(pairs []TagPair) (Tags, error) {
	var t Tags

	type group struct {
		data [][]byte
	}
	groups := make(map[byte]*group)
	var unknown []UnknownTag

	for _, p := range pairs {
		if len(p.Tag) != 1 {
			unknown = append(unknown, UnknownTag{Tag: p.Tag, Data: p.Data})
			continue
		}
		tag := p.Tag[0]
		switch tag {
		case TagContentType, TagPointer, TagParent, TagMetadata, TagMetaprotocol,
			TagContentEncoding, TagDelegate, TagRune, TagNote:
			g, ok := groups[tag]
			if !ok {
				g = &group{}
				groups[tag] = g
			}
			g.data = append(g.data, p.Data)
		default:
			unknown = append(unknown, UnknownTag{Tag: p.Tag, Data: p.Data})
		}
	}

	concat := func(tag byte) ([]byte, bool) {
		g, ok := groups[tag]
		if !ok {
			return nil, false
		}
		var out []byte
		for _, d := range g.data {
			out = append(out, d...)
		}
		return out, true
	}

	if data, ok := concat(TagContentType); ok {
		s := string(data)
		t.ContentType = &s
	}
	if data, ok := concat(TagPointer); ok {
		if len(data) > 8 {
			return Tags{}, errors.Wrapf(ErrMalformedEnvelope, "pointer field of %d bytes exceeds 8", len(data))
		}
		v := decodeUintLE(data)
		t.Pointer = &v
	}
	if g, ok := groups[TagParent]; ok {
		for _, d := range g.data {
			id, err := DecodeInscriptionId(d)
			if err != nil {
				return Tags{}, errors.Wrap(err, "parent")
			}
			t.Parents = append(t.Parents, id)
		}
	}
	if data, ok := concat(TagMetadata); ok {
		v, err := cbor.Decode(data)
		if err != nil {
			return Tags{}, errors.Wrap(err, "metadata")
		}
		t.Metadata = v
	}
	if data, ok := concat(TagMetaprotocol); ok {
		s := string(data)
		t.Metaprotocol = &s
	}
	if data, ok := concat(TagContentEncoding); ok {
		s := string(data)
		t.ContentEncoding = &s
	}
	if data, ok := concat(TagDelegate); ok {
		id, err := DecodeInscriptionId(data)
		if err != nil {
			return Tags{}, errors.Wrap(err, "delegate")
		}
		t.Delegate = &id
	}
	if data, ok := concat(TagRune); ok {
		if len(data) > 16 {
			return Tags{}, errors.Wrapf(ErrMalformedEnvelope, "rune field of %d bytes exceeds 16", len(data))
		}
		v := decodeUint128LE(data)
		t.Rune = &v
	}
	if data, ok := concat(TagNote); ok {
		s := string(data)
		t.Note = &s
	}

	t.Unknown = unknown
	return t, nil
}

func encodeUintLE(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeUintLE(b []byte) uint64 {
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:])
}

// encodeUint128LE packs v into 16 little-endian bytes, byte-by-byte off
// the low end via And64/Rsh rather than reaching past uint128's own API
// for a raw word layout.
func encodeUint128LE(v uint128.Uint128) []byte {
	var b [16]byte
	for i := range b {
		b[i] = v.And64(0xff).Uint8()
		v = v.Rsh(8)
	}
	return b[:]
}

// decodeUint128LE is the inverse of encodeUint128LE: it accumulates b's
// bytes from the high end down via Lsh/Or, so any length up to 16 (as
// produced by trimTrailingZeros) reconstructs the same value.
func decodeUint128LE(b []byte) uint128.Uint128 {
	var buf [16]byte
	copy(buf[:], b)
	v := uint128.From64(0)
	for i := 15; i >= 0; i-- {
		v = v.Lsh(8).Or(uint128.New(uint64(buf[i]), 0))
	}
	return v
}
