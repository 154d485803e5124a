package protocol

import "errors"

// OpCode identifies one host tree mutation.
type OpCode uint8

const (
	OpCreateElement  OpCode = 0x01 // Node, Name=tag
	OpCreateText     OpCode = 0x02 // Node, Value=text
	OpSetText        OpCode = 0x03 // Node, Value=text
	OpSetAttr        OpCode = 0x04 // Node, Name, Value
	OpRemoveAttr     OpCode = 0x05 // Node, Name
	OpSetProp        OpCode = 0x06 // Node, Name, Value
	OpAddListener    OpCode = 0x07 // Node, Name=event
	OpRemoveListener OpCode = 0x08 // Node, Name=event
	OpInsertBefore   OpCode = 0x09 // Parent, Node, Ref (0 appends)
	OpRemoveChild    OpCode = 0x0A // Parent, Node
)

// String returns a readable name for logging.
func (c OpCode) String() string {
	switch c {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetProp:
		return "SetProp"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpInsertBefore:
		return "InsertBefore"
	case OpRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// ErrInvalidOpCode reports an unknown opcode in a mutation batch.
var ErrInvalidOpCode = errors.New("protocol: invalid op code")

// Op is one host tree mutation. Node IDs are assigned by the server; id 0 is
// reserved for the root container on the client.
type Op struct {
	Code   OpCode
	Node   uint64 // target node
	Parent uint64 // InsertBefore, RemoveChild
	Ref    uint64 // InsertBefore anchor; 0 appends
	Name   string // tag, attribute, prop or event name
	Value  string
}

// EncodeOps encodes a mutation batch: batch sequence number, op count, then
// each op with only the fields its opcode uses.
func EncodeOps(seq uint64, ops []Op) []byte {
	enc := NewEncoderWithCap(16 + 16*len(ops))
	enc.WriteUvarint(seq)
	enc.WriteUvarint(uint64(len(ops)))
	for _, op := range ops {
		encodeOp(enc, op)
	}
	return enc.Bytes()
}

func encodeOp(enc *Encoder, op Op) {
	enc.WriteByte(byte(op.Code))
	switch op.Code {
	case OpCreateElement, OpRemoveAttr, OpAddListener, OpRemoveListener:
		enc.WriteUvarint(op.Node)
		enc.WriteString(op.Name)
	case OpCreateText, OpSetText:
		enc.WriteUvarint(op.Node)
		enc.WriteString(op.Value)
	case OpSetAttr, OpSetProp:
		enc.WriteUvarint(op.Node)
		enc.WriteString(op.Name)
		enc.WriteString(op.Value)
	case OpInsertBefore:
		enc.WriteUvarint(op.Parent)
		enc.WriteUvarint(op.Node)
		enc.WriteUvarint(op.Ref)
	case OpRemoveChild:
		enc.WriteUvarint(op.Parent)
		enc.WriteUvarint(op.Node)
	}
}

// DecodeOps decodes a mutation batch.
func DecodeOps(data []byte) (uint64, []Op, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return 0, nil, err
	}
	ops := make([]Op, 0, count)
	for i := 0; i < count; i++ {
		op, err := decodeOp(d)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, op)
	}
	return seq, ops, nil
}

func decodeOp(d *Decoder) (Op, error) {
	var op Op
	code, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Code = OpCode(code)

	switch op.Code {
	case OpCreateElement, OpRemoveAttr, OpAddListener, OpRemoveListener:
		if op.Node, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		op.Name, err = d.ReadString()
	case OpCreateText, OpSetText:
		if op.Node, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		op.Value, err = d.ReadString()
	case OpSetAttr, OpSetProp:
		if op.Node, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		if op.Name, err = d.ReadString(); err != nil {
			return op, err
		}
		op.Value, err = d.ReadString()
	case OpInsertBefore:
		if op.Parent, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		if op.Node, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		op.Ref, err = d.ReadUvarint()
	case OpRemoveChild:
		if op.Parent, err = d.ReadUvarint(); err != nil {
			return op, err
		}
		op.Node, err = d.ReadUvarint()
	default:
		return op, ErrInvalidOpCode
	}
	return op, err
}
