package cbor

import "github.com/cockroachdb/errors"

// ErrMalformedCbor is returned by Decode for any input that is not a
// well-formed encoding of a single value under this profile: truncated
// input, an unknown additional-info value (28/29/30), an unassigned
// simple value, a nested indefinite-length chunk, a chunk of an
// indefinite string whose major type doesn't match its parent, or an
// unexpected break code.
var ErrMalformedCbor = errors.New("cbor: malformed input")

// ErrUnsupportedCborEncode is returned by Encode when asked to encode a
// Tag. Tags are decode-only in this profile.
var ErrUnsupportedCborEncode = errors.New("cbor: value not encodable under this profile")
