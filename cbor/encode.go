package cbor

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
)

// maxNegBigArg is the largest CBOR major-1 argument this profile's
// 8-byte width can carry (2^64 - 1), corresponding to the value
// -2^64, the most negative value NegBig can hold.
var maxNegBigArg = new(big.Int).SetUint64(math.MaxUint64)

// Encode renders v to its canonical wire form. Widths are always the
// smallest that hold the value (RFC 8949 §4.2's "preferred serialization"),
// finite lengths only for strings/arrays/maps (this profile never emits
// an indefinite length), and Tag values are rejected outright.
func Encode(v Value) ([]byte, error) {
	var buf []byte
	if err := encodeInto(&buf, v); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeInto(buf *[]byte, v Value) error {
	switch x := v.(type) {
	case Uint:
		appendHead(buf, 0, uint64(x))
	case NegInt:
		n := negIntArg(int64(x))
		appendHead(buf, 1, n)
	case NegBig:
		n, err := negBigArg(x.Value)
		if err != nil {
			return err
		}
		appendHead(buf, 1, n)
	case Bytes:
		appendHead(buf, 2, uint64(len(x)))
		*buf = append(*buf, x...)
	case Text:
		appendHead(buf, 3, uint64(len(x)))
		*buf = append(*buf, x...)
	case Array:
		appendHead(buf, 4, uint64(len(x)))
		for _, item := range x {
			if err := encodeInto(buf, item); err != nil {
				return err
			}
		}
	case Map:
		appendHead(buf, 5, uint64(len(x)))
		for _, entry := range x {
			if err := encodeInto(buf, entry.Key); err != nil {
				return err
			}
			if err := encodeInto(buf, entry.Value); err != nil {
				return err
			}
		}
	case Tag:
		return errors.Wrapf(ErrUnsupportedCborEncode, "tag %d", x.Number)
	case Bool:
		if x {
			*buf = append(*buf, 0xF5)
		} else {
			*buf = append(*buf, 0xF4)
		}
	case Null:
		*buf = append(*buf, 0xF6)
	case Undefined:
		*buf = append(*buf, 0xF7)
	case Float:
		encodeFloat(buf, float64(x))
	default:
		return errors.Newf("cbor: unknown value type %T", v)
	}
	return nil
}

// negIntArg converts a native negative int64 v into the CBOR major-1
// argument n such that v == -(n+1).
func negIntArg(v int64) uint64 {
	return uint64(-(v + 1))
}

// negBigArg converts a negative *big.Int v into the CBOR major-1
// argument n such that v == -(n+1), erroring if n would overflow the
// 8-byte width this profile's major type 0/1 arguments are limited to.
func negBigArg(v *big.Int) (uint64, error) {
	if v.Sign() >= 0 {
		return 0, errors.Newf("cbor: NegBig value %s is not negative", v.String())
	}
	n := new(big.Int).Neg(v)
	n.Sub(n, big.NewInt(1))
	if n.Sign() < 0 || n.Cmp(maxNegBigArg) > 0 {
		return 0, errors.Newf("cbor: value %s exceeds the 8-byte negative-integer range", v.String())
	}
	return n.Uint64(), nil
}

// appendHead appends the major-type/additional-info head for (major, n)
// using the narrowest of the five canonical widths.
func appendHead(buf *[]byte, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		*buf = append(*buf, m|byte(n))
	case n <= math.MaxUint8:
		*buf = append(*buf, m|24, byte(n))
	case n <= math.MaxUint16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		*buf = append(*buf, m|25)
		*buf = append(*buf, b[:]...)
	case n <= math.MaxUint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		*buf = append(*buf, m|26)
		*buf = append(*buf, b[:]...)
	default:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		*buf = append(*buf, m|27)
		*buf = append(*buf, b[:]...)
	}
}

// encodeFloat picks the canonical width for x: the fixed half-precision
// bit pattern for NaN/+Inf/-Inf/-0, otherwise single precision if x
// round-trips exactly through float32, otherwise double precision.
// Finite values never use half precision, since a half-precision
// mantissa would silently lose bits and break decode-then-encode
// round-tripping.
func encodeFloat(buf *[]byte, x float64) {
	switch {
	case math.IsNaN(x):
		appendHalf(buf, 0x7E00)
	case math.IsInf(x, 1):
		appendHalf(buf, 0x7C00)
	case math.IsInf(x, -1):
		appendHalf(buf, 0xFC00)
	case x == 0 && math.Signbit(x):
		appendHalf(buf, 0x8000)
	default:
		if f32 := float32(x); float64(f32) == x {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], math.Float32bits(f32))
			*buf = append(*buf, 0xFA)
			*buf = append(*buf, b[:]...)
		} else {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], math.Float64bits(x))
			*buf = append(*buf, 0xFB)
			*buf = append(*buf, b[:]...)
		}
	}
}

func appendHalf(buf *[]byte, bits uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], bits)
	*buf = append(*buf, 0xF9)
	*buf = append(*buf, b[:]...)
}
