// Package cbor implements the restricted profile of RFC 8949 CBOR that
// ordinals inscription metadata is encoded with: canonical minimal-width
// integers, finite-only encoding of byte/text strings (indefinite
// accepted on decode), tags surfaced but never emitted, and a fixed set
// of canonical bit patterns for the handful of floats that use half
// precision.
//
// No dependency in the retrieved reference pack implements this exact
// bit-exact wire format (see the module-level DESIGN.md for why common
// CBOR libraries don't fit), so this package is written directly
// against RFC 8949 rather than adapted from a library.
package cbor

import "math/big"

// Value is the open algebraic type CBOR values decode into and encode
// from. Exactly one of the accompanying types below implements it;
// callers type-switch on the concrete type the same way they would on
// a JSON-like sum type in any other language.
type Value interface {
	cborValue()
}

// Uint is a non-negative integer (CBOR major type 0). The full 0..2^64-1
// range always fits a Go uint64, so no big-integer variant is needed on
// this side.
type Uint uint64

// NegInt is a negative integer (CBOR major type 1) whose value -(n+1)
// fits a native int64.
type NegInt int64

// NegBig is a negative integer whose magnitude exceeds what int64 can
// hold (n >= 2^63 in the underlying -(n+1) encoding, i.e. the value is
// less than math.MinInt64). It always holds a negative *big.Int.
type NegBig struct {
	Value *big.Int
}

// Bytes is a byte string (CBOR major type 2).
type Bytes []byte

// Text is a UTF-8 string (CBOR major type 3).
type Text string

// Array is an ordered sequence of values (CBOR major type 4).
type Array []Value

// MapEntry is one key/value pair of a Map, in wire order.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered association list (CBOR major type 5). It is a list
// of pairs rather than a Go map because CBOR permits arbitrary,
// non-comparable values as keys and requires insertion order to be
// preserved — a native map with hash-order iteration would violate
// both.
type Map []MapEntry

// Tag pairs a tag number with its tagged value (CBOR major type 6).
// Tags are surfaced on decode only; the encoder rejects them.
type Tag struct {
	Number uint64
	Inner  Value
}

// Bool is a CBOR boolean simple value (20/21).
type Bool bool

// Null is the CBOR null simple value (22).
type Null struct{}

// Undefined is the CBOR undefined simple value (23).
type Undefined struct{}

// Float is an IEEE 754 float decoded from any of the half/single/double
// widths (CBOR major type 7, additional info 25/26/27). The width used
// on encode is chosen by Encode per the canonical policy documented on
// encodeFloat; on decode all widths widen to float64 uniformly.
type Float float64

func (Uint) cborValue()      {}
func (NegInt) cborValue()    {}
func (NegBig) cborValue()    {}
func (Bytes) cborValue()     {}
func (Text) cborValue()      {}
func (Array) cborValue()     {}
func (Map) cborValue()       {}
func (Tag) cborValue()       {}
func (Bool) cborValue()      {}
func (Null) cborValue()      {}
func (Undefined) cborValue() {}
func (Float) cborValue()     {}

// BigInt returns v's value as a *big.Int regardless of which integer
// variant it is, for callers that want a single numeric type to work
// with.
func (v Uint) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(v))
}

// BigInt returns n's value as a *big.Int.
func (n NegInt) BigInt() *big.Int {
	return big.NewInt(int64(n))
}

// BigInt returns b's value as a *big.Int.
func (b NegBig) BigInt() *big.Int {
	return new(big.Int).Set(b.Value)
}
