package ordinals

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func testTxid(t *testing.T, fill byte) chainhash.Hash {
	t.Helper()
	var h chainhash.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}

func TestInscriptionIdStringRoundTrip(t *testing.T) {
	id := InscriptionId{TxId: testTxid(t, 0xab), Index: 7}
	parsed, err := ParseInscriptionId(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestInscriptionIdStringZeroIndex(t *testing.T) {
	id := InscriptionId{TxId: testTxid(t, 0x01), Index: 0}
	require.Equal(t, id.TxId.String()+"i0", id.String())
}

func TestParseInscriptionIdRejectsNonCanonicalIndex(t *testing.T) {
	base := testTxid(t, 0x02).String()
	_, err := ParseInscriptionId(base + "i007")
	require.ErrorIs(t, err, ErrMalformedInscriptionID)

	_, err = ParseInscriptionId(base + "i-1")
	require.ErrorIs(t, err, ErrMalformedInscriptionID)

	_, err = ParseInscriptionId(base + "i")
	require.Error(t, err)
}

func TestParseInscriptionIdMissingSeparator(t *testing.T) {
	_, err := ParseInscriptionId(testTxid(t, 0x03).String())
	require.ErrorIs(t, err, ErrMalformedInscriptionID)
}

func TestEncodeBinaryTrimsTrailingZeros(t *testing.T) {
	id := InscriptionId{TxId: testTxid(t, 0x04), Index: 0}
	b := id.EncodeBinary()
	require.Len(t, b, 32)

	id2 := InscriptionId{TxId: testTxid(t, 0x05), Index: 1}
	b2 := id2.EncodeBinary()
	require.Len(t, b2, 33)
	require.Equal(t, byte(1), b2[32])

	id3 := InscriptionId{TxId: testTxid(t, 0x06), Index: 256}
	b3 := id3.EncodeBinary()
	require.Len(t, b3, 34)
}

func TestDecodeInscriptionIdBinaryRoundTrip(t *testing.T) {
	id := InscriptionId{TxId: testTxid(t, 0x07), Index: 1_000_000}
	decoded, err := DecodeInscriptionId(id.EncodeBinary())
	require.NoError(t, err)
	require.Equal(t, id, decoded)
}

func TestDecodeInscriptionIdRejectsOversizedSuffix(t *testing.T) {
	h := testTxid(t, 0x08)
	b := append(h[:], []byte{1, 2, 3, 4, 5}...)
	_, err := DecodeInscriptionId(b)
	require.ErrorIs(t, err, ErrMalformedInscriptionID)
}

func TestDecodeInscriptionIdRejectsShortInput(t *testing.T) {
	_, err := DecodeInscriptionId(make([]byte, 31))
	require.ErrorIs(t, err, ErrMalformedInscriptionID)
}
