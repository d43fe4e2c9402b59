package ordinals

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/inscription-c/ordinals/internal/ordlog"
	"github.com/inscription-c/ordinals/internal/ordscript"
)

// ErrWrongWitnessShape is returned by ParseWitness when the witness
// does not have exactly 3 elements.
var ErrWrongWitnessShape = errors.New("ordinals: witness must have exactly 3 elements")

// Inscription is one decoded envelope: its typed tag fields, its raw
// body, and whether recovering it required non-canonical script ops.
type Inscription struct {
	Tags   Tags
	Body   []byte
	Cursed bool
}

// rawEnvelope is the intermediate result of scanning a script for one
// envelope: the interleaved (tag, data, ..., OP_0, body...) pushes
// making up its payload, plus the two flags that mark a cursed parse.
//
// payload keeps each push as a ScriptOp rather than a bare []byte:
// the body separator is specifically the OP_0 opcode, distinct from a
// data push whose bytes happen to be a single zero byte, and
// collapsing the two would misidentify the body separator whenever a
// tag's data happens to be a lone zero byte.
type rawEnvelope struct {
	payload []ordscript.ScriptOp
	pushNum bool
	stutter bool
}

// ParseInscriptions scans script for ordinals envelopes and decodes
// each one into an Inscription. In non-strict mode it always succeeds,
// recovering as many envelopes as it can and marking any whose
// recovery required non-canonical ops as cursed. In strict mode —
// used by the reveal-script recognizer — it additionally requires the
// whole script to have the exact p2tr_ord_reveal shape (pubkey +
// OP_CHECKSIG prefix, no cursed envelopes, envelopes packed
// contiguously with nothing trailing the last one) and returns
// (nil, false) on any violation rather than a partial result.
func ParseInscriptions(script []byte, strict bool) ([]Inscription, bool) {
	ops, err := ordscript.Decode(script)
	if err != nil {
		if strict {
			return nil, false
		}
		return nil, true
	}

	if strict {
		return parseStrict(ops)
	}

	raws := parseEnvelopes(ops)
	inscriptions := make([]Inscription, 0, len(raws))
	for _, r := range raws {
		insc, err := inscriptionFromPayload(r)
		if err != nil {
			// Malformed tag/data inside an otherwise well-formed
			// envelope header; skip it rather than fail the whole scan.
			continue
		}
		if insc.Cursed {
			ordlog.L.Debugw("recovered cursed inscription", "pushnum", r.pushNum, "stutter", r.stutter)
		}
		inscriptions = append(inscriptions, insc)
	}
	return inscriptions, true
}

// ParseWitness rejects witnesses that don't have exactly 3 elements
// (signature, script, control block — the conventional taproot
// script-path witness shape) and otherwise decodes witness[1] as a
// script and delegates to ParseInscriptions in non-strict mode.
func ParseWitness(witness [][]byte) ([]Inscription, error) {
	if len(witness) != 3 {
		return nil, errors.Wrapf(ErrWrongWitnessShape, "got %d elements", len(witness))
	}
	inscriptions, _ := ParseInscriptions(witness[1], false)
	return inscriptions, nil
}

// parseEnvelopes performs the linear scan described for the envelope
// grammar: OP_0 OP_IF PROTOCOL_ID {TAG DATA} OP_0 {DATA} OP_ENDIF. It
// additionally tolerates, and flags as stutter, an extra OP_0
// immediately before the opening OP_0 and a spurious OP_0 immediately
// after OP_IF in place of PROTOCOL_ID (see DESIGN.md for why both
// count as the same "stutter" condition).
func parseEnvelopes(ops ordscript.Script) []rawEnvelope {
	var out []rawEnvelope
	i := 0
	for i < len(ops) {
		if ops[i].Kind != ordscript.KindOpZero {
			i++
			continue
		}
		if i+1 >= len(ops) || !isNamedOp(ops[i+1], "OP_IF") {
			i++
			continue
		}

		stutter := i > 0 && ops[i-1].Kind == ordscript.KindOpZero
		protoIdx := i + 2
		if protoIdx < len(ops) && ops[protoIdx].Kind == ordscript.KindOpZero {
			stutter = true
			protoIdx++
		}
		if protoIdx >= len(ops) {
			i++
			continue
		}
		data, isBytes := ops[protoIdx].IsBytes()
		if !isBytes || !bytes.Equal(data, ordscript.ProtocolID) {
			i++
			continue
		}

		env, next, ok := collectEnvelope(ops, protoIdx+1, stutter)
		if !ok {
			i++
			continue
		}
		out = append(out, env)
		i = next
	}
	return out
}

// collectEnvelope reads the payload of one envelope starting right
// after PROTOCOL_ID, up to and including OP_ENDIF. A non-bytes,
// non-OP_0, non-pushnum op terminates the attempt without emitting an
// envelope; parseEnvelopes then resumes scanning at the op right after
// the abandoned envelope's opening OP_0, so an envelope that begins
// inside the abandoned payload is still found.
func collectEnvelope(ops ordscript.Script, start int, stutter bool) (rawEnvelope, int, bool) {
	pushNum := false
	var payload []ordscript.ScriptOp
	for j := start; j < len(ops); j++ {
		op := ops[j]
		switch {
		case isNamedOp(op, "OP_ENDIF"):
			return rawEnvelope{payload: payload, pushNum: pushNum, stutter: stutter}, j + 1, true
		case op.Kind == ordscript.KindOpZero:
			payload = append(payload, op)
		case op.Kind == ordscript.KindBytes:
			payload = append(payload, op)
		default:
			if b, ok := ordscript.PushNumByteForName(op.Name); ok {
				pushNum = true
				payload = append(payload, ordscript.Bytes([]byte{b}))
				continue
			}
			return rawEnvelope{}, j, false
		}
	}
	return rawEnvelope{}, len(ops), false
}

func isNamedOp(op ordscript.ScriptOp, name string) bool {
	return op.Kind == ordscript.KindOpName && op.Name == name
}

// parseStrict recognizes exactly the shape p2tr_ord_reveal emits:
// a 32-byte pubkey push, OP_CHECKSIG, then zero or more envelopes
// packed contiguously with nothing before, between, or after them,
// none of them cursed. Any deviation returns (nil, false) rather than
// a partial parse, so a custom-script dispatcher can try another
// recognizer.
func parseStrict(ops ordscript.Script) ([]Inscription, bool) {
	if len(ops) < 2 {
		return nil, false
	}
	if pk, ok := ops[0].IsBytes(); !ok || len(pk) != 32 {
		return nil, false
	}
	if !isNamedOp(ops[1], "OP_CHECKSIG") {
		return nil, false
	}

	rest := ops[2:]
	inscriptions := make([]Inscription, 0)
	pos := 0
	for pos < len(rest) {
		if rest[pos].Kind != ordscript.KindOpZero || pos+1 >= len(rest) || !isNamedOp(rest[pos+1], "OP_IF") {
			return nil, false
		}
		protoIdx := pos + 2
		if protoIdx >= len(rest) {
			return nil, false
		}
		data, isBytes := rest[protoIdx].IsBytes()
		if !isBytes || !bytes.Equal(data, ordscript.ProtocolID) {
			return nil, false
		}
		env, next, ok := collectEnvelope(rest, protoIdx+1, false)
		if !ok || env.pushNum || env.stutter {
			return nil, false
		}
		insc, err := inscriptionFromPayload(env)
		if err != nil {
			return nil, false
		}
		inscriptions = append(inscriptions, insc)
		pos = next
	}
	return inscriptions, true
}

// inscriptionFromPayload splits an envelope's payload pushes at the
// first OP_0 body separator (checked only at tag-header positions):
// everything before it is (tag, data) pairs, everything after (having
// skipped the run of further OP_0s the separator may stutter into) is
// body data, concatenated in order.
//
// Checking only even (tag-header) positions matters because an empty
// tag value round-trips through ordscript as OP_0, not as an empty
// data push (see ordscript.Decode); tag values only ever occupy odd
// positions, so they can never be mistaken for the separator.
func inscriptionFromPayload(r rawEnvelope) (Inscription, error) {
	bodyIdx := -1
	for i := 0; i < len(r.payload); i += 2 {
		if r.payload[i].Kind == ordscript.KindOpZero {
			bodyIdx = i
			break
		}
	}

	headEnd := len(r.payload)
	if bodyIdx != -1 {
		headEnd = bodyIdx
	}

	var pairs []TagPair
	for i := 0; i+1 < headEnd; i += 2 {
		tagData, _ := r.payload[i].IsBytes()
		valData, _ := r.payload[i+1].IsBytes()
		pairs = append(pairs, TagPair{Tag: tagData, Data: valData})
	}

	var body []byte
	if bodyIdx != -1 {
		j := bodyIdx + 1
		for j < len(r.payload) && r.payload[j].Kind == ordscript.KindOpZero {
			j++
		}
		for ; j < len(r.payload); j++ {
			data, _ := r.payload[j].IsBytes()
			body = append(body, data...)
		}
	}

	tags, err := DecodeTags(pairs)
	if err != nil {
		return Inscription{}, err
	}
	return Inscription{
		Tags:   tags,
		Body:   body,
		Cursed: r.pushNum || r.stutter,
	}, nil
}
