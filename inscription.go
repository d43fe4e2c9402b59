package ordinals

import "github.com/inscription-c/ordinals/internal/ordscript"

// EncodeEnvelope renders insc as the ops of one envelope:
// OP_0 OP_IF "ord" {tag pairs} OP_0 {body chunks} OP_ENDIF. The body
// separator OP_0 is always emitted, even when the body is empty, and
// the body is always split into pushes of at most
// ordscript.MaxScriptElementSize bytes.
func EncodeEnvelope(insc Inscription) (ordscript.Script, error) {
	pairs, err := EncodeTags(insc.Tags)
	if err != nil {
		return nil, err
	}

	ops := ordscript.Script{
		ordscript.OpZero,
		ordscript.OpName("OP_IF"),
		ordscript.Bytes(ordscript.ProtocolID),
	}
	for _, p := range pairs {
		ops = append(ops, ordscript.Bytes(p.Tag), ordscript.Bytes(p.Data))
	}
	ops = append(ops, ordscript.OpZero)
	for _, part := range chunkBytes(insc.Body) {
		ops = append(ops, ordscript.Bytes(part))
	}
	ops = append(ops, ordscript.OpName("OP_ENDIF"))
	return ops, nil
}

// chunkBytes splits data into pushes of at most
// ordscript.MaxScriptElementSize bytes each. Empty data yields no
// pushes at all (the caller already emits the OP_0 body separator
// unconditionally, so an empty body needs nothing further).
func chunkBytes(data []byte) [][]byte {
	var out [][]byte
	for len(data) > 0 {
		n := len(data)
		if n > ordscript.MaxScriptElementSize {
			n = ordscript.MaxScriptElementSize
		}
		out = append(out, data[:n])
		data = data[n:]
	}
	return out
}
