package reveal

import (
	"testing"

	"github.com/inscription-c/ordinals"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testPubkey(fill byte) [32]byte {
	var pk [32]byte
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func TestP2TROrdRevealRecognizeRoundTrip(t *testing.T) {
	pubkey := testPubkey(0x11)
	insc := ordinals.Inscription{
		Tags: ordinals.Tags{ContentType: strPtr("text/plain;charset=utf-8")},
		Body: []byte("gm"),
	}

	r, err := P2TROrdReveal(pubkey, []ordinals.Inscription{insc})
	require.NoError(t, err)
	require.Equal(t, Type, r.Type)

	desc, ok := Recognize(r.Script)
	require.True(t, ok)
	require.Equal(t, pubkey, desc.Pubkey)
	require.Len(t, desc.Inscriptions, 1)
	require.Equal(t, insc.Body, desc.Inscriptions[0].Body)
	require.Equal(t, *insc.Tags.ContentType, *desc.Inscriptions[0].Tags.ContentType)

	emitted, err := Emit(desc)
	require.NoError(t, err)
	require.Equal(t, r.Script, emitted)
}

func TestRecognizeRejectsNonRevealScript(t *testing.T) {
	_, ok := Recognize([]byte{0x51, 0x52})
	require.False(t, ok)
}

func TestRecognizeRejectsTrailingJunk(t *testing.T) {
	pubkey := testPubkey(0x22)
	r, err := P2TROrdReveal(pubkey, []ordinals.Inscription{{Body: []byte("x")}})
	require.NoError(t, err)

	// Corrupt the script by appending trailing junk after the last
	// OP_ENDIF, which strict recognition must reject.
	junked := append(append([]byte{}, r.Script...), 0x01, 0xff)
	_, ok := Recognize(junked)
	require.False(t, ok)
}

func TestFinalizeTaprootRequiresExactlyOneMatchingSignature(t *testing.T) {
	pubkey := testPubkey(0x33)
	desc := OutOrdinalRevealType{Pubkey: pubkey}
	leafScript := []byte{0x51}

	witness, ok := FinalizeTaproot(leafScript, desc, map[[32]byte][]byte{pubkey: {0xaa, 0xbb}})
	require.True(t, ok)
	require.Equal(t, [][]byte{{0xaa, 0xbb}, leafScript}, witness)

	_, ok = FinalizeTaproot(leafScript, desc, map[[32]byte][]byte{})
	require.False(t, ok)

	other := testPubkey(0x44)
	_, ok = FinalizeTaproot(leafScript, desc, map[[32]byte][]byte{other: {0xaa}})
	require.False(t, ok)

	_, ok = FinalizeTaproot(leafScript, desc, map[[32]byte][]byte{
		pubkey: {0xaa},
		other:  {0xbb},
	})
	require.False(t, ok)
}
