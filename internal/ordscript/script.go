// Package ordscript adapts github.com/btcsuite/btcd/txscript into the
// small script-op vocabulary the ordinals envelope codec is built on: a
// ScriptOp sum type, a handful of named opcodes the envelope grammar
// cares about, and encode/decode helpers built directly on txscript's
// ScriptBuilder and ScriptTokenizer rather than hand-rolling opcode
// arithmetic.
package ordscript

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
)

// MaxScriptElementSize is the maximum number of bytes a single data
// push may carry under the standard Bitcoin consensus rules.
const MaxScriptElementSize = 520

// ProtocolID is the three-byte marker that opens an ordinals envelope.
var ProtocolID = []byte("ord")

// OpKind distinguishes the three shapes a ScriptOp can take. A genuine
// single-byte push of literal 0x00 (OP_DATA_1 0x00) stays distinct from
// KindOpZero on decode, since it is a different opcode on the wire; a
// truly empty push has no such distinct encoding — btcd's ScriptBuilder
// renders it as the bare OP_0 byte, so it decodes back as KindOpZero,
// not as an empty KindBytes.
type OpKind int

const (
	// KindBytes is an arbitrary non-empty data push.
	KindBytes OpKind = iota
	// KindOpName is a named opcode that isn't a data push, identified
	// by its mnemonic (e.g. "OP_IF", "OP_ENDIF", "OP_CHECKSIG").
	KindOpName
	// KindOpZero is the OP_0 / OP_FALSE opcode specifically.
	KindOpZero
)

// ScriptOp is one element of a Script: a data push, a named non-push
// opcode, or the OP_0 sentinel.
type ScriptOp struct {
	Kind OpKind
	Data []byte // valid when Kind == KindBytes
	Name string // valid when Kind == KindOpName
}

// Bytes builds a data-push ScriptOp.
func Bytes(b []byte) ScriptOp { return ScriptOp{Kind: KindBytes, Data: b} }

// OpName builds a named-opcode ScriptOp.
func OpName(name string) ScriptOp { return ScriptOp{Kind: KindOpName, Name: name} }

// OpZero is the sentinel for the OP_0 opcode.
var OpZero = ScriptOp{Kind: KindOpZero}

// IsBytes reports whether op is a data push and returns its payload.
func (op ScriptOp) IsBytes() ([]byte, bool) {
	if op.Kind != KindBytes {
		return nil, false
	}
	return op.Data, true
}

// Script is an ordered sequence of ScriptOps.
type Script []ScriptOp

// pushNumOpcodes maps OP_1..OP_16 and OP_1NEGATE to the minimal byte
// they push once re-materialized.
var pushNumOpcodes = map[byte]byte{
	txscript.OP_1NEGATE: 0x81,
	txscript.OP_1:       1,
	txscript.OP_2:       2,
	txscript.OP_3:       3,
	txscript.OP_4:       4,
	txscript.OP_5:       5,
	txscript.OP_6:       6,
	txscript.OP_7:       7,
	txscript.OP_8:       8,
	txscript.OP_9:       9,
	txscript.OP_10:      10,
	txscript.OP_11:      11,
	txscript.OP_12:      12,
	txscript.OP_13:      13,
	txscript.OP_14:      14,
	txscript.OP_15:      15,
	txscript.OP_16:      16,
}

// PushNumByte reports whether opcode is one of OP_1NEGATE/OP_1..OP_16
// and, if so, the single byte it re-materializes as.
func PushNumByte(opcode byte) (byte, bool) {
	b, ok := pushNumOpcodes[opcode]
	return b, ok
}

// PushNumByteForName is PushNumByte keyed by the mnemonic Decode
// assigns a pushnum opcode, for callers (the envelope parser) that
// only see a decoded Script rather than raw opcode bytes.
func PushNumByteForName(name string) (byte, bool) {
	opcode, ok := pushNumOpcodeNames[name]
	if !ok {
		return 0, false
	}
	return PushNumByte(opcode)
}

var pushNumOpcodeNames = map[string]byte{
	"OP_1NEGATE": txscript.OP_1NEGATE,
	"OP_1":       txscript.OP_1,
	"OP_2":       txscript.OP_2,
	"OP_3":       txscript.OP_3,
	"OP_4":       txscript.OP_4,
	"OP_5":       txscript.OP_5,
	"OP_6":       txscript.OP_6,
	"OP_7":       txscript.OP_7,
	"OP_8":       txscript.OP_8,
	"OP_9":       txscript.OP_9,
	"OP_10":      txscript.OP_10,
	"OP_11":      txscript.OP_11,
	"OP_12":      txscript.OP_12,
	"OP_13":      txscript.OP_13,
	"OP_14":      txscript.OP_14,
	"OP_15":      txscript.OP_15,
	"OP_16":      txscript.OP_16,
}

var namedOpcodes = map[byte]string{
	txscript.OP_IF:       "OP_IF",
	txscript.OP_ENDIF:    "OP_ENDIF",
	txscript.OP_CHECKSIG: "OP_CHECKSIG",
	txscript.OP_1NEGATE:  "OP_1NEGATE",
	txscript.OP_1:        "OP_1",
	txscript.OP_2:        "OP_2",
	txscript.OP_3:        "OP_3",
	txscript.OP_4:        "OP_4",
	txscript.OP_5:        "OP_5",
	txscript.OP_6:        "OP_6",
	txscript.OP_7:        "OP_7",
	txscript.OP_8:        "OP_8",
	txscript.OP_9:        "OP_9",
	txscript.OP_10:       "OP_10",
	txscript.OP_11:       "OP_11",
	txscript.OP_12:       "OP_12",
	txscript.OP_13:       "OP_13",
	txscript.OP_14:       "OP_14",
	txscript.OP_15:       "OP_15",
	txscript.OP_16:       "OP_16",
}

// IsPushBytes reports whether opcode is any of the data-push opcodes
// (OP_DATA_1..OP_DATA_75, OP_PUSHDATA1/2/4).
func IsPushBytes(opcode byte) bool {
	return (opcode >= txscript.OP_DATA_1 && opcode <= txscript.OP_DATA_75) ||
		opcode == txscript.OP_PUSHDATA1 ||
		opcode == txscript.OP_PUSHDATA2 ||
		opcode == txscript.OP_PUSHDATA4
}

// ErrUnsupportedOp is returned by Encode when a ScriptOp names an
// opcode this adapter doesn't know how to emit.
var ErrUnsupportedOp = errors.New("ordscript: unsupported op name")

// Encode renders a Script to its wire bytes using a txscript.ScriptBuilder.
func Encode(ops Script) ([]byte, error) {
	b := txscript.NewScriptBuilder()
	for _, op := range ops {
		switch op.Kind {
		case KindBytes:
			if len(op.Data) == 1 {
				// AddFullData would render a lone 0x00, 0x01..0x10 or 0x81
				// as OP_0, OP_1..OP_16 or OP_1NEGATE; an explicit one-byte
				// push keeps it decoding back as the same KindBytes op.
				b.AddOps([]byte{txscript.OP_DATA_1, op.Data[0]})
			} else {
				b.AddFullData(op.Data)
			}
		case KindOpZero:
			b.AddOp(txscript.OP_0)
		case KindOpName:
			switch op.Name {
			case "OP_IF":
				b.AddOp(txscript.OP_IF)
			case "OP_ENDIF":
				b.AddOp(txscript.OP_ENDIF)
			case "OP_CHECKSIG":
				b.AddOp(txscript.OP_CHECKSIG)
			default:
				if opcode, ok := pushNumOpcodeNames[op.Name]; ok {
					b.AddOp(opcode)
					continue
				}
				return nil, errors.Wrapf(ErrUnsupportedOp, "op %q", op.Name)
			}
		}
	}
	return b.Script()
}

// Decode tokenizes script bytes into a Script, naming the handful of
// opcodes the envelope grammar inspects by mnemonic. An empty data push
// is indistinguishable on the wire from OP_0 and always decodes as
// KindOpZero; only a non-empty push of a literal zero byte decodes as
// KindBytes.
func Decode(script []byte) (Script, error) {
	var ops Script
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		switch {
		case op == txscript.OP_0:
			ops = append(ops, OpZero)
		case IsPushBytes(op):
			data := make([]byte, len(tokenizer.Data()))
			copy(data, tokenizer.Data())
			ops = append(ops, Bytes(data))
		default:
			if name, ok := namedOpcodes[op]; ok {
				ops = append(ops, OpName(name))
				continue
			}
			ops = append(ops, OpName(fmt.Sprintf("OP_UNKNOWN_%d", op)))
		}
	}
	if err := tokenizer.Err(); err != nil {
		return nil, errors.Wrap(err, "ordscript: decode script")
	}
	return ops, nil
}
