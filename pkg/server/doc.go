// Package server hosts fern applications over WebSocket. Each connection
// gets a Session owning a RemoteHost: a host tree adapter whose mutations are
// buffered and streamed to the thin client as binary op batches, while user
// events flow back and dispatch into the component tree on the server.
package server
