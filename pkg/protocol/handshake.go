package protocol

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Version is the protocol version spoken by this package. A server refuses
// clients that announce a different version.
const Version = 1

// ClientHello is the first frame a client sends after connecting.
type ClientHello struct {
	Protocol  int    `json:"protocol"`
	Session   string `json:"session,omitempty"` // resume token, empty for new sessions
	UserAgent string `json:"userAgent,omitempty"`
}

// ServerHello is the server's handshake reply.
type ServerHello struct {
	Protocol int    `json:"protocol"`
	Session  string `json:"session"`
	Resumed  bool   `json:"resumed"`
}

// EncodeClientHello encodes a handshake request payload.
func EncodeClientHello(h *ClientHello) ([]byte, error) {
	return json.Marshal(h)
}

// DecodeClientHello decodes a handshake request and validates the version.
func DecodeClientHello(data []byte) (*ClientHello, error) {
	var h ClientHello
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("protocol: invalid client hello: %w", err)
	}
	if h.Protocol != Version {
		return nil, fmt.Errorf("protocol: unsupported version %d, want %d", h.Protocol, Version)
	}
	return &h, nil
}

// EncodeServerHello encodes a handshake reply payload.
func EncodeServerHello(h *ServerHello) ([]byte, error) {
	return json.Marshal(h)
}

// DecodeServerHello decodes a handshake reply.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	var h ServerHello
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("protocol: invalid server hello: %w", err)
	}
	return &h, nil
}
