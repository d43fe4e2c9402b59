package ordinals

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// ErrMalformedInscriptionID is returned when a textual or binary
// inscription ID fails to parse: a non-hex/wrong-length txid, a
// non-decimal index, an index string that doesn't round-trip through
// base-10 formatting (leading zeros, a "+" sign, etc.), or a binary
// index suffix longer than 4 bytes.
var ErrMalformedInscriptionID = errors.New("ordinals: malformed inscription id")

// InscriptionId identifies the reveal transaction and input index that
// created an inscription. Its textual form is "<txid>i<index>"; its
// canonical binary form is the 32-byte txid followed by the
// little-endian bytes of index with trailing (high-order) zero bytes
// trimmed — a zero index binary-encodes to no suffix at all. This
// trimming is the fix noted in DESIGN.md for the fixed 4-byte
// little-endian encoding some source implementations use, which fails
// to round-trip an index binary-decoded from a shorter suffix.
type InscriptionId struct {
	TxId  chainhash.Hash
	Index uint32
}

// String renders id in "<txid>i<index>" form, with txid in the
// conventional display byte order (chainhash.Hash.String() reverses
// the internal wire order for exactly this purpose).
func (id InscriptionId) String() string {
	return id.TxId.String() + "i" + strconv.FormatUint(uint64(id.Index), 10)
}

// ParseInscriptionId parses the textual form "<txid>i<index>". The
// index substring must be exactly the decimal digits FormatUint would
// produce for it — no leading zeros, no sign, no whitespace — since
// the wire format has no canonical way to represent those variants and
// round-tripping must be lossless.
func ParseInscriptionId(s string) (InscriptionId, error) {
	sep := strings.LastIndexByte(s, 'i')
	if sep < 0 {
		return InscriptionId{}, errors.Wrapf(ErrMalformedInscriptionID, "missing separator in %q", s)
	}
	txidPart, indexPart := s[:sep], s[sep+1:]

	txid, err := chainhash.NewHashFromStr(txidPart)
	if err != nil {
		return InscriptionId{}, errors.Wrapf(ErrMalformedInscriptionID, "txid %q: %s", txidPart, err)
	}

	index, err := strconv.ParseUint(indexPart, 10, 32)
	if err != nil {
		return InscriptionId{}, errors.Wrapf(ErrMalformedInscriptionID, "index %q", indexPart)
	}
	if strconv.FormatUint(index, 10) != indexPart {
		return InscriptionId{}, errors.Wrapf(ErrMalformedInscriptionID, "index %q does not round-trip", indexPart)
	}

	return InscriptionId{TxId: *txid, Index: uint32(index)}, nil
}

// EncodeBinary renders id in its canonical binary form.
func (id InscriptionId) EncodeBinary() []byte {
	out := make([]byte, 32, 36)
	copy(out, id.TxId[:])
	return append(out, trimTrailingZeros(encodeUint32LE(id.Index))...)
}

// DecodeInscriptionId parses the canonical binary form produced by
// EncodeBinary: 32 bytes of txid followed by 0-4 little-endian bytes
// of index.
func DecodeInscriptionId(b []byte) (InscriptionId, error) {
	if len(b) < 32 {
		return InscriptionId{}, errors.Wrap(ErrMalformedInscriptionID, "binary id shorter than 32 bytes")
	}
	suffix := b[32:]
	if len(suffix) > 4 {
		return InscriptionId{}, errors.Wrapf(ErrMalformedInscriptionID, "index suffix of %d bytes exceeds 4", len(suffix))
	}
	var txid chainhash.Hash
	copy(txid[:], b[:32])
	return InscriptionId{TxId: txid, Index: decodeUint32LE(suffix)}, nil
}

func encodeUint32LE(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func decodeUint32LE(b []byte) uint32 {
	var buf [4]byte
	copy(buf[:], b)
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// trimTrailingZeros drops high-order zero bytes from a little-endian
// integer encoding, the canonicalization every fixed-width tag value
// (InscriptionId index, pointer, rune) in this package shares.
func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
