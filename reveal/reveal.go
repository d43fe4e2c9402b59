// Package reveal builds the Taproot leaf script for an inscription
// reveal transaction and recognizes/finalizes that script as a
// custom-script type: a waddrmgr.Tapscript built around the envelope
// leaf script, and a psbt.Packet finalizer that populates its Taproot
// input fields by hand.
package reveal

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcwallet/waddrmgr"
	"github.com/cockroachdb/errors"
	"github.com/inscription-c/ordinals"
	"github.com/inscription-c/ordinals/internal/ordscript"
)

// Type is the custom-script type name p2tr_ord_reveal produces.
const Type = "tr_ord_reveal"

// Reveal is the result of p2tr_ord_reveal.
type Reveal struct {
	Type   string
	Script []byte
}

// P2TROrdReveal builds the leaf script `<pubkey> OP_CHECKSIG` followed
// by one envelope per inscription, in order.
func P2TROrdReveal(pubkey [32]byte, inscriptions []ordinals.Inscription) (Reveal, error) {
	ops := ordscript.Script{
		ordscript.Bytes(pubkey[:]),
		ordscript.OpName("OP_CHECKSIG"),
	}
	for _, insc := range inscriptions {
		envOps, err := ordinals.EncodeEnvelope(insc)
		if err != nil {
			return Reveal{}, errors.Wrap(err, "encode envelope")
		}
		ops = append(ops, envOps...)
	}
	script, err := ordscript.Encode(ops)
	if err != nil {
		return Reveal{}, errors.Wrap(err, "encode script")
	}
	return Reveal{Type: Type, Script: script}, nil
}

// OutOrdinalRevealType is the parsed descriptor recognize returns: the
// x-only pubkey embedded in the leaf script and the inscriptions
// carried by its envelopes.
type OutOrdinalRevealType struct {
	Pubkey       [32]byte
	Inscriptions []ordinals.Inscription
}

// Recognize runs strict envelope parsing against script and, on
// success, returns the pubkey and inscriptions it carries. It never
// raises on a non-matching script — a false return lets a
// custom-script dispatcher try the next recognizer instead.
func Recognize(script []byte) (OutOrdinalRevealType, bool) {
	inscriptions, ok := ordinals.ParseInscriptions(script, true)
	if !ok {
		return OutOrdinalRevealType{}, false
	}
	ops, err := ordscript.Decode(script)
	if err != nil || len(ops) == 0 {
		return OutOrdinalRevealType{}, false
	}
	pk, isBytes := ops[0].IsBytes()
	if !isBytes || len(pk) != 32 {
		return OutOrdinalRevealType{}, false
	}
	var pubkey [32]byte
	copy(pubkey[:], pk)
	return OutOrdinalRevealType{Pubkey: pubkey, Inscriptions: inscriptions}, true
}

// Emit is the inverse of Recognize: it re-derives the leaf script from
// a descriptor, in the same layout P2TROrdReveal produces.
func Emit(desc OutOrdinalRevealType) ([]byte, error) {
	r, err := P2TROrdReveal(desc.Pubkey, desc.Inscriptions)
	if err != nil {
		return nil, err
	}
	return r.Script, nil
}

// FinalizeTaproot builds the 2-element taproot script-path witness
// stack (signature, leaf script) — the control block is appended by
// the host, which owns the wider taproot tree the leaf belongs to.
// signatures must carry exactly one entry, keyed by the signer's
// x-only pubkey, and that key must byte-equal desc.Pubkey; any other
// shape returns (nil, false) rather than an error, since a mismatch
// here just means this finalizer doesn't apply.
func FinalizeTaproot(leafScript []byte, desc OutOrdinalRevealType, signatures map[[32]byte][]byte) ([][]byte, bool) {
	if len(signatures) != 1 {
		return nil, false
	}
	sig, ok := signatures[desc.Pubkey]
	if !ok {
		return nil, false
	}
	return [][]byte{sig, leafScript}, true
}

// TapLeaf builds the waddrmgr.Tapscript for a reveal script under
// internalKey, wrapping it as the sole leaf of a full tapscript tree.
func TapLeaf(internalKey *btcec.PublicKey, script []byte) *waddrmgr.Tapscript {
	return &waddrmgr.Tapscript{
		Type: waddrmgr.TapscriptTypeFullTree,
		Leaves: []txscript.TapLeaf{
			{
				LeafVersion: txscript.BaseLeafVersion,
				Script:      script,
			},
		},
		ControlBlock: &txscript.ControlBlock{
			InternalKey: internalKey,
		},
	}
}

// FinalizeTaprootPSBT finalizes inputIndex of p as a p2tr_ord_reveal
// script-path spend: it expects exactly one TaprootLeafScript already
// attached to the input (the leaf script and control block a signer
// populated ahead of time) and one signature over it, and writes the
// serialized witness to the input's FinalScriptWitness field.
func FinalizeTaprootPSBT(p *psbt.Packet, inputIndex int, desc OutOrdinalRevealType, signature []byte) error {
	if inputIndex < 0 || inputIndex >= len(p.Inputs) {
		return errors.Newf("reveal: input index %d out of range", inputIndex)
	}
	in := &p.Inputs[inputIndex]
	if len(in.TaprootLeafScript) != 1 {
		return errors.Newf("reveal: expected exactly one taproot leaf script, got %d", len(in.TaprootLeafScript))
	}
	leaf := in.TaprootLeafScript[0]

	witness, ok := FinalizeTaproot(leaf.Script, desc, map[[32]byte][]byte{desc.Pubkey: signature})
	if !ok {
		return errors.New("reveal: signature does not match reveal pubkey")
	}
	witness = append(witness, leaf.ControlBlock)

	var buf bytes.Buffer
	if err := psbt.WriteTxWitness(&buf, witness); err != nil {
		return errors.Wrap(err, "serialize witness")
	}
	in.FinalScriptWitness = buf.Bytes()
	return nil
}
