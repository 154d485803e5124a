package protocol

// Event is a user interaction reported by the client. Node is the server
// assigned id of the element the listener was registered on. Value and
// Checked carry the live input state for form events; both are zero for
// simple events like clicks.
type Event struct {
	Seq     uint64
	Node    uint64
	Name    string // "click", "input", ...
	Value   string
	Checked bool
}

// EncodeEvent encodes an event payload.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(e.Seq)
	enc.WriteUvarint(e.Node)
	enc.WriteString(e.Name)
	enc.WriteString(e.Value)
	enc.WriteBool(e.Checked)
	return enc.Bytes()
}

// DecodeEvent decodes an event payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	e := &Event{}
	var err error
	if e.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if e.Node, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if e.Name, err = d.ReadString(); err != nil {
		return nil, err
	}
	if e.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	if e.Checked, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return e, nil
}
