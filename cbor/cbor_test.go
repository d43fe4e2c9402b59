package cbor

import (
	"math"
	"math/big"
	"testing"

	"gotest.tools/assert"
)

func TestEncodeUintWidths(t *testing.T) {
	cases := []struct {
		v    Uint
		want []byte
	}{
		{0, []byte{0x00}},
		{23, []byte{0x17}},
		{24, []byte{0x18, 0x18}},
		{255, []byte{0x18, 0xFF}},
		{256, []byte{0x19, 0x01, 0x00}},
		{65535, []byte{0x19, 0xFF, 0xFF}},
		{65536, []byte{0x1A, 0x00, 0x01, 0x00, 0x00}},
		{math.MaxUint32, []byte{0x1A, 0xFF, 0xFF, 0xFF, 0xFF}},
		{math.MaxUint32 + 1, []byte{0x1B, 0, 0, 0, 1, 0, 0, 0, 0}},
		{math.MaxUint64, []byte{0x1B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		got, err := Encode(c.v)
		assert.NilError(t, err)
		assert.DeepEqual(t, got, c.want)
	}
}

func TestEncodeDecodeNegInt(t *testing.T) {
	got, err := Encode(NegInt(-1))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte{0x20})

	got, err = Encode(NegInt(-24))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte{0x37})

	got, err = Encode(NegInt(math.MinInt64))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte{0x3B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	v, err := Decode(got)
	assert.NilError(t, err)
	assert.Equal(t, v.(NegInt), NegInt(math.MinInt64))
}

func TestNegBigBeyondInt64(t *testing.T) {
	// -2^64, the most negative value representable at all: n = 2^64-1.
	n := new(big.Int).SetUint64(math.MaxUint64)
	want := new(big.Int).Neg(new(big.Int).Add(n, big.NewInt(1)))

	got, err := Encode(NegBig{Value: want})
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte{0x3B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	v, err := Decode(got)
	assert.NilError(t, err)
	nb, ok := v.(NegBig)
	assert.Assert(t, ok)
	assert.Equal(t, nb.Value.Cmp(want), 0)
}

func TestEncodeFloatSpecialPatterns(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		want []byte
	}{
		{"nan", math.NaN(), []byte{0xF9, 0x7E, 0x00}},
		{"+inf", math.Inf(1), []byte{0xF9, 0x7C, 0x00}},
		{"-inf", math.Inf(-1), []byte{0xF9, 0xFC, 0x00}},
		{"-zero", math.Copysign(0, -1), []byte{0xF9, 0x80, 0x00}},
	}
	for _, c := range cases {
		got, err := Encode(Float(c.v))
		assert.NilError(t, err)
		assert.DeepEqual(t, got, c.want)
	}
}

func TestEncodeFiniteFloatWidthSelection(t *testing.T) {
	// +0 is finite, so it takes single width, never half.
	got, err := Encode(Float(0))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte{0xFA, 0, 0, 0, 0})

	// 1.5 round-trips through float32 exactly.
	got, err = Encode(Float(1.5))
	assert.NilError(t, err)
	assert.Equal(t, got[0], byte(0xFA))

	// A value needing full double precision.
	got, err = Encode(Float(math.Pi))
	assert.NilError(t, err)
	assert.Equal(t, got[0], byte(0xFB))

	v, err := Decode(got)
	assert.NilError(t, err)
	assert.Equal(t, float64(v.(Float)), math.Pi)
}

func TestDecodeIndefiniteByteString(t *testing.T) {
	// (_ h'0102', h'0304') then break.
	input := []byte{0x5F, 0x42, 0x01, 0x02, 0x42, 0x03, 0x04, 0xFF}
	v, err := Decode(input)
	assert.NilError(t, err)
	assert.DeepEqual(t, []byte(v.(Bytes)), []byte{0x01, 0x02, 0x03, 0x04})
}

func TestDecodeIndefiniteStringChunkMismatchErrors(t *testing.T) {
	// indefinite byte string with a text-string chunk inside it.
	input := []byte{0x5F, 0x61, 'a', 0xFF}
	_, err := Decode(input)
	assert.ErrorContains(t, err, "malformed")
}

func TestMapPreservesOrderAndArbitraryKeys(t *testing.T) {
	m := Map{
		{Key: Uint(2), Value: Text("two")},
		{Key: Bool(true), Value: Text("yes")},
		{Key: Text("k"), Value: Uint(1)},
	}
	got, err := Encode(m)
	assert.NilError(t, err)

	v, err := Decode(got)
	assert.NilError(t, err)
	decoded := v.(Map)
	assert.Equal(t, len(decoded), 3)
	assert.Equal(t, decoded[0].Key.(Uint), Uint(2))
	assert.Equal(t, decoded[1].Key.(Bool), Bool(true))
	assert.Equal(t, decoded[2].Key.(Text), Text("k"))
}

func TestDecodeTagIsSurfacedNotAutoConverted(t *testing.T) {
	// tag(2) applied to a byte string, the standard positive-bignum tag.
	input := []byte{0xC2, 0x41, 0x01}
	v, err := Decode(input)
	assert.NilError(t, err)
	tag, ok := v.(Tag)
	assert.Assert(t, ok)
	assert.Equal(t, tag.Number, uint64(2))
	assert.DeepEqual(t, []byte(tag.Inner.(Bytes)), []byte{0x01})
}

func TestEncodeTagRejected(t *testing.T) {
	_, err := Encode(Tag{Number: 2, Inner: Bytes{0x01}})
	assert.ErrorContains(t, err, "not encodable")
}

func TestDecodeUnassignedSimpleValueErrors(t *testing.T) {
	_, err := Decode([]byte{0xE0}) // major 7, additional info 0
	assert.ErrorContains(t, err, "malformed")
}

func TestDecodeTrailingBytesErrors(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x00})
	assert.ErrorContains(t, err, "trailing")
}

func TestDecodeReservedAdditionalInfoErrors(t *testing.T) {
	_, err := Decode([]byte{0x1C}) // major 0, additional info 28
	assert.ErrorContains(t, err, "malformed")
}
