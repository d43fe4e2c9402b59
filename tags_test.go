package ordinals

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEncodeDecodeTagsRoundTrip(t *testing.T) {
	pointer := uint64(12345)
	rn := uint128.From64(999)
	parent := InscriptionId{TxId: testTxid(t, 0x10), Index: 1}
	delegate := InscriptionId{TxId: testTxid(t, 0x11), Index: 0}

	tags := Tags{
		ContentType:     strPtr("text/plain;charset=utf-8"),
		Pointer:         &pointer,
		Parents:         []InscriptionId{parent},
		Metaprotocol:    strPtr("brc-20"),
		ContentEncoding: strPtr("br"),
		Delegate:        &delegate,
		Rune:            &rn,
		Note:            strPtr("hello"),
	}

	pairs, err := EncodeTags(tags)
	require.NoError(t, err)

	decoded, err := DecodeTags(pairs)
	require.NoError(t, err)

	require.Equal(t, *tags.ContentType, *decoded.ContentType)
	require.Equal(t, *tags.Pointer, *decoded.Pointer)
	require.Equal(t, tags.Parents, decoded.Parents)
	require.Equal(t, *tags.Metaprotocol, *decoded.Metaprotocol)
	require.Equal(t, *tags.ContentEncoding, *decoded.ContentEncoding)
	require.Equal(t, *tags.Delegate, *decoded.Delegate)
	require.Equal(t, *tags.Rune, *decoded.Rune)
	require.Equal(t, *tags.Note, *decoded.Note)
}

func TestMultipleParentsDecodeIndependently(t *testing.T) {
	p1 := InscriptionId{TxId: testTxid(t, 0x20), Index: 0}
	p2 := InscriptionId{TxId: testTxid(t, 0x21), Index: 5}
	tags := Tags{Parents: []InscriptionId{p1, p2}}

	pairs, err := EncodeTags(tags)
	require.NoError(t, err)

	var parentPairs int
	for _, p := range pairs {
		if len(p.Tag) == 1 && p.Tag[0] == TagParent {
			parentPairs++
		}
	}
	require.Equal(t, 2, parentPairs)

	decoded, err := DecodeTags(pairs)
	require.NoError(t, err)
	require.Equal(t, []InscriptionId{p1, p2}, decoded.Parents)
}

func TestUnknownTagsPreserveOrder(t *testing.T) {
	pairs := []TagPair{
		{Tag: []byte{TagContentType}, Data: []byte("text/plain")},
		{Tag: []byte{99}, Data: []byte("first")},
		{Tag: []byte{97}, Data: []byte("second")},
	}
	decoded, err := DecodeTags(pairs)
	require.NoError(t, err)
	require.Equal(t, []UnknownTag{
		{Tag: []byte{99}, Data: []byte("first")},
		{Tag: []byte{97}, Data: []byte("second")},
	}, decoded.Unknown)
}

func TestUnknownMultiByteTagPreserved(t *testing.T) {
	pairs := []TagPair{
		{Tag: []byte{0x81, 0x02}, Data: []byte("weird")},
	}
	decoded, err := DecodeTags(pairs)
	require.NoError(t, err)
	require.Len(t, decoded.Unknown, 1)
	require.Equal(t, []byte{0x81, 0x02}, decoded.Unknown[0].Tag)
}

func TestPointerFieldRejectsOversizedData(t *testing.T) {
	pairs := []TagPair{{Tag: []byte{TagPointer}, Data: make([]byte, 9)}}
	_, err := DecodeTags(pairs)
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestRuneFieldRejectsOversizedData(t *testing.T) {
	pairs := []TagPair{{Tag: []byte{TagRune}, Data: make([]byte, 17)}}
	_, err := DecodeTags(pairs)
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestChunkSplitsOversizedContentType(t *testing.T) {
	big := make([]byte, 1200)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	tags := Tags{ContentType: strPtr(string(big))}
	pairs, err := EncodeTags(tags)
	require.NoError(t, err)
	require.Greater(t, len(pairs), 1)

	decoded, err := DecodeTags(pairs)
	require.NoError(t, err)
	require.Equal(t, string(big), *decoded.ContentType)
}
