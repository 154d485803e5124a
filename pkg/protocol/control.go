package protocol

// Close codes carried in a FrameClose payload.
const (
	CloseNormal        uint64 = 0 // orderly shutdown
	CloseProtocolError uint64 = 1 // peer sent something unintelligible
	CloseServerError   uint64 = 2 // internal failure, session is gone
	CloseIdleTimeout   uint64 = 3 // no activity within the idle window
)

// EncodePing encodes a ping or pong payload carrying the sender's timestamp
// in unix milliseconds. A pong echoes the timestamp it received.
func EncodePing(unixMillis uint64) []byte {
	return AppendUvarint(nil, unixMillis)
}

// DecodePing decodes a ping or pong payload.
func DecodePing(data []byte) (uint64, error) {
	d := NewDecoder(data)
	return d.ReadUvarint()
}

// EncodeClose encodes a close payload: code plus human-readable reason.
func EncodeClose(code uint64, reason string) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(code)
	enc.WriteString(reason)
	return enc.Bytes()
}

// DecodeClose decodes a close payload.
func DecodeClose(data []byte) (uint64, string, error) {
	d := NewDecoder(data)
	code, err := d.ReadUvarint()
	if err != nil {
		return 0, "", err
	}
	reason, err := d.ReadString()
	if err != nil {
		return 0, "", err
	}
	return code, reason, nil
}
