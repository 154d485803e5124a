package server

import "errors"

var (
	// ErrSessionClosed reports a write against a session that already shut
	// down.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrTooManySessions reports that MaxSessions is reached.
	ErrTooManySessions = errors.New("server: session limit reached")

	// ErrHandshakeRequired reports a client that sent something other than a
	// handshake as its first frame.
	ErrHandshakeRequired = errors.New("server: handshake required")
)
