package protocol

import (
	"errors"
	"io"
)

// FrameType identifies a message on the wire. WebSocket preserves message
// boundaries, so a frame is just the type byte plus its payload.
type FrameType uint8

const (
	FrameHandshake FrameType = 0x00 // JSON hello, both directions
	FrameEvent     FrameType = 0x01 // client to server user event
	FrameMutations FrameType = 0x02 // server to client host mutation batch
	FramePing      FrameType = 0x03 // liveness probe
	FramePong      FrameType = 0x04 // probe reply
	FrameClose     FrameType = 0x05 // orderly shutdown with reason
)

// String returns a readable name for logging.
func (ft FrameType) String() string {
	switch ft {
	case FrameHandshake:
		return "Handshake"
	case FrameEvent:
		return "Event"
	case FrameMutations:
		return "Mutations"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	case FrameClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// ErrInvalidFrameType reports a frame byte outside the known range.
var ErrInvalidFrameType = errors.New("protocol: invalid frame type")

// EncodeFrame prepends the frame type byte to payload.
func EncodeFrame(ft FrameType, payload []byte) []byte {
	buf := make([]byte, 1+len(payload))
	buf[0] = byte(ft)
	copy(buf[1:], payload)
	return buf
}

// DecodeFrame splits a message into its frame type and payload. The payload
// aliases data; copy it if it must outlive the message buffer.
func DecodeFrame(data []byte) (FrameType, []byte, error) {
	if len(data) < 1 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	ft := FrameType(data[0])
	if ft > FrameClose {
		return 0, nil, ErrInvalidFrameType
	}
	return ft, data[1:], nil
}
