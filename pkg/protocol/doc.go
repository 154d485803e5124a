// Package protocol implements the binary wire format between a fern server
// and its thin client.
//
// Every message is a frame: a one-byte frame type followed by a
// type-specific payload. The server streams host mutation batches
// (FrameMutations) to the client; the client sends user events (FrameEvent)
// back. Handshake payloads are JSON, everything else is a compact binary
// encoding built on varints and length-prefixed strings.
//
// Decoding is defensive: length prefixes are validated against the remaining
// buffer and against allocation limits before any memory is reserved, so a
// malicious peer cannot force large allocations with a short message.
package protocol
