package cbor

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
)

// Decode parses exactly one CBOR value from data. Trailing bytes after
// the value are treated as malformed input: inscription metadata is
// always the entirety of a tag's payload, so a well-formed metadata
// tag never has anything left over.
func Decode(data []byte) (Value, error) {
	d := &decoder{buf: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, errors.Wrapf(ErrMalformedCbor, "%d trailing byte(s)", len(d.buf)-d.pos)
	}
	return v, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, errors.Wrap(ErrMalformedCbor, "unexpected end of input")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, errors.Wrap(ErrMalformedCbor, "unexpected end of input")
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// head reads a major type/additional-info byte and returns the major
// type, the resolved argument (when additional info < 28), and whether
// the additional info was 31 (indefinite length / break code).
func (d *decoder) head() (major byte, arg uint64, indefinite bool, err error) {
	b, err := d.byte()
	if err != nil {
		return 0, 0, false, err
	}
	major = b >> 5
	ai := b & 0x1F
	switch {
	case ai < 24:
		return major, uint64(ai), false, nil
	case ai == 24:
		b, err := d.byte()
		if err != nil {
			return 0, 0, false, err
		}
		return major, uint64(b), false, nil
	case ai == 25:
		b, err := d.take(2)
		if err != nil {
			return 0, 0, false, err
		}
		return major, uint64(binary.BigEndian.Uint16(b)), false, nil
	case ai == 26:
		b, err := d.take(4)
		if err != nil {
			return 0, 0, false, err
		}
		return major, uint64(binary.BigEndian.Uint32(b)), false, nil
	case ai == 27:
		b, err := d.take(8)
		if err != nil {
			return 0, 0, false, err
		}
		return major, binary.BigEndian.Uint64(b), false, nil
	case ai == 31:
		return major, 0, true, nil
	default:
		return 0, 0, false, errors.Wrapf(ErrMalformedCbor, "reserved additional-info %d", ai)
	}
}

// peekIsBreak reports whether the next byte is the CBOR break code
// (0xFF) without consuming it.
func (d *decoder) peekIsBreak() bool {
	return d.pos < len(d.buf) && d.buf[d.pos] == 0xFF
}

func (d *decoder) value() (Value, error) {
	start := d.pos
	major, arg, indefinite, err := d.head()
	if err != nil {
		return nil, err
	}
	switch major {
	case 0:
		if indefinite {
			return nil, errors.Wrap(ErrMalformedCbor, "indefinite length on unsigned integer")
		}
		return Uint(arg), nil
	case 1:
		if indefinite {
			return nil, errors.Wrap(ErrMalformedCbor, "indefinite length on negative integer")
		}
		return decodeNegInt(arg), nil
	case 2:
		return d.stringLike(indefinite, arg, 2)
	case 3:
		return d.stringLike(indefinite, arg, 3)
	case 4:
		return d.array(indefinite, arg)
	case 5:
		return d.mapValue(indefinite, arg)
	case 6:
		inner, err := d.value()
		if err != nil {
			return nil, errors.Wrap(err, "tag content")
		}
		return Tag{Number: arg, Inner: inner}, nil
	case 7:
		// head already consumed a float's 2/4/8 payload bytes as its
		// argument; rewind so simple reads them itself, keyed by the
		// additional info (25/26/27) rather than by the float's bits.
		if ai := d.buf[start] & 0x1F; ai >= 25 && ai <= 27 {
			d.pos, arg = start+1, uint64(ai)
		}
		return d.simple(arg, indefinite)
	default:
		return nil, errors.Wrapf(ErrMalformedCbor, "unknown major type %d", major)
	}
}

func decodeNegInt(n uint64) Value {
	if n <= math.MaxInt64 {
		return NegInt(-(int64(n) + 1))
	}
	v := new(big.Int).SetUint64(n)
	v.Add(v, big.NewInt(1))
	v.Neg(v)
	return NegBig{Value: v}
}

// stringLike decodes a byte or text string (major 2 or 3), including
// the indefinite-length chunked form: chunks must all share the
// string's major type and none may itself be indefinite.
func (d *decoder) stringLike(indefinite bool, length uint64, major byte) (Value, error) {
	var raw []byte
	if !indefinite {
		b, err := d.take(int(length))
		if err != nil {
			return nil, err
		}
		raw = append(raw, b...)
	} else {
		for !d.peekIsBreak() {
			chunkMajor, chunkArg, chunkIndefinite, err := d.head()
			if err != nil {
				return nil, err
			}
			if chunkMajor != major || chunkIndefinite {
				return nil, errors.Wrap(ErrMalformedCbor, "invalid chunk in indefinite-length string")
			}
			b, err := d.take(int(chunkArg))
			if err != nil {
				return nil, err
			}
			raw = append(raw, b...)
		}
		if _, err := d.byte(); err != nil { // consume break
			return nil, err
		}
	}
	if major == 2 {
		return Bytes(raw), nil
	}
	return Text(raw), nil
}

func (d *decoder) array(indefinite bool, length uint64) (Value, error) {
	var items Array
	if !indefinite {
		items = make(Array, 0, length)
		for i := uint64(0); i < length; i++ {
			v, err := d.value()
			if err != nil {
				return nil, errors.Wrapf(err, "array element %d", i)
			}
			items = append(items, v)
		}
		return items, nil
	}
	for !d.peekIsBreak() {
		v, err := d.value()
		if err != nil {
			return nil, errors.Wrap(err, "indefinite array element")
		}
		items = append(items, v)
	}
	if _, err := d.byte(); err != nil {
		return nil, err
	}
	return items, nil
}

func (d *decoder) mapValue(indefinite bool, length uint64) (Value, error) {
	var entries Map
	readPair := func() error {
		k, err := d.value()
		if err != nil {
			return errors.Wrap(err, "map key")
		}
		v, err := d.value()
		if err != nil {
			return errors.Wrap(err, "map value")
		}
		entries = append(entries, MapEntry{Key: k, Value: v})
		return nil
	}
	if !indefinite {
		entries = make(Map, 0, length)
		for i := uint64(0); i < length; i++ {
			if err := readPair(); err != nil {
				return nil, err
			}
		}
		return entries, nil
	}
	for !d.peekIsBreak() {
		if err := readPair(); err != nil {
			return nil, err
		}
	}
	if _, err := d.byte(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *decoder) simple(arg uint64, indefinite bool) (Value, error) {
	if indefinite {
		return nil, errors.Wrap(ErrMalformedCbor, "unexpected break code")
	}
	switch arg {
	case 20:
		return Bool(false), nil
	case 21:
		return Bool(true), nil
	case 22:
		return Null{}, nil
	case 23:
		return Undefined{}, nil
	case 25:
		b, err := d.take(2)
		if err != nil {
			return nil, err
		}
		return Float(decodeHalf(binary.BigEndian.Uint16(b))), nil
	case 26:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case 27:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	default:
		return nil, errors.Wrapf(ErrMalformedCbor, "unassigned simple value %d", arg)
	}
}

// decodeHalf converts an IEEE 754 half-precision bit pattern to
// float64, per the canonical algorithm in RFC 8949 Appendix D.
func decodeHalf(bits uint16) float64 {
	sign := bits >> 15
	exp := (bits >> 10) & 0x1F
	mant := bits & 0x3FF

	var val float64
	switch {
	case exp == 0:
		val = math.Ldexp(float64(mant), -24)
	case exp != 31:
		val = math.Ldexp(float64(mant)+1024, int(exp)-25)
	case mant == 0:
		val = math.Inf(1)
	default:
		val = math.NaN()
	}
	if sign != 0 && !math.IsNaN(val) {
		val = -val
	}
	return val
}
