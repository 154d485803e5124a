package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fern-ui/fern/pkg/protocol"
	"github.com/fern-ui/fern/pkg/vdom"
)

func counterView() *vdom.VNode {
	return vdom.New(vdom.Ctor(newRemoteCounter), nil)
}

func startTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AllowAnyOrigin = true
	srv := NewServer(cfg, counterView)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (protocol.FrameType, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ft, payload, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return ft, payload
}

func sendFrame(t *testing.T, conn *websocket.Conn, ft protocol.FrameType, payload []byte) {
	t.Helper()
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.EncodeFrame(ft, payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func handshakeWS(t *testing.T, conn *websocket.Conn) *protocol.ServerHello {
	t.Helper()
	payload, err := protocol.EncodeClientHello(&protocol.ClientHello{
		Protocol:  protocol.Version,
		UserAgent: "fern-test",
	})
	if err != nil {
		t.Fatalf("encode hello: %v", err)
	}
	sendFrame(t, conn, protocol.FrameHandshake, payload)

	ft, reply := readFrame(t, conn)
	if ft != protocol.FrameHandshake {
		t.Fatalf("first frame = %v, want handshake", ft)
	}
	hello, err := protocol.DecodeServerHello(reply)
	if err != nil {
		t.Fatalf("decode server hello: %v", err)
	}
	return hello
}

func readMutations(t *testing.T, conn *websocket.Conn) (uint64, []protocol.Op) {
	t.Helper()
	for {
		ft, payload := readFrame(t, conn)
		switch ft {
		case protocol.FrameMutations:
			seq, ops, err := protocol.DecodeOps(payload)
			if err != nil {
				t.Fatalf("decode ops: %v", err)
			}
			return seq, ops
		case protocol.FramePing:
			sendFrame(t, conn, protocol.FramePong, payload)
		default:
			t.Fatalf("unexpected frame %v while waiting for mutations", ft)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	srv, ts := startTestServer(t)
	conn := dialWS(t, ts)

	hello := handshakeWS(t, conn)
	if hello.Session == "" {
		t.Error("server hello has no session id")
	}
	if hello.Protocol != protocol.Version {
		t.Errorf("server protocol = %d, want %d", hello.Protocol, protocol.Version)
	}

	seq, ops := readMutations(t, conn)
	if seq != 1 {
		t.Errorf("initial batch seq = %d, want 1", seq)
	}
	btn, ok := findListener(ops, "click")
	if !ok {
		t.Fatal("initial batch has no click listener")
	}

	sendFrame(t, conn, protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{
		Seq:  1,
		Node: btn,
		Name: "click",
	}))

	seq, ops = readMutations(t, conn)
	if seq != 2 {
		t.Errorf("event batch seq = %d, want 2", seq)
	}
	found := false
	for _, op := range ops {
		if op.Code == protocol.OpSetText && op.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Errorf("event batch missing setText 1, ops: %v", ops)
	}

	if got := srv.SessionCount(); got != 1 {
		t.Errorf("SessionCount() = %d, want 1", got)
	}

	conn.Close()
	waitFor(t, func() bool { return srv.SessionCount() == 0 })
}

func TestEachSessionGetsOwnTree(t *testing.T) {
	_, ts := startTestServer(t)

	a := dialWS(t, ts)
	b := dialWS(t, ts)
	handshakeWS(t, a)
	handshakeWS(t, b)

	_, aOps := readMutations(t, a)
	_, bOps := readMutations(t, b)
	aBtn, _ := findListener(aOps, "click")
	bBtn, _ := findListener(bOps, "click")

	sendFrame(t, a, protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{Node: aBtn, Name: "click"}))
	readMutations(t, a)

	// b's counter is untouched; a second click on b must render 1, not 2.
	sendFrame(t, b, protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{Node: bBtn, Name: "click"}))
	_, ops := readMutations(t, b)
	for _, op := range ops {
		if op.Code == protocol.OpSetText && op.Value != "1" {
			t.Errorf("second session setText = %q, want 1", op.Value)
		}
	}
}

func TestPingPong(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dialWS(t, ts)
	handshakeWS(t, conn)
	readMutations(t, conn)

	ts0 := uint64(time.Now().UnixMilli())
	sendFrame(t, conn, protocol.FramePing, protocol.EncodePing(ts0))

	ft, payload := readFrame(t, conn)
	if ft != protocol.FramePong {
		t.Fatalf("reply frame = %v, want pong", ft)
	}
	echoed, err := protocol.DecodePing(payload)
	if err != nil {
		t.Fatalf("decode pong: %v", err)
	}
	if echoed != ts0 {
		t.Errorf("pong timestamp = %d, want %d", echoed, ts0)
	}
}

func TestHandshakeRequiredFirst(t *testing.T) {
	srv, ts := startTestServer(t)
	conn := dialWS(t, ts)

	// An event before the handshake closes the session.
	sendFrame(t, conn, protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{Node: 1, Name: "click"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	waitFor(t, func() bool { return srv.SessionCount() == 0 })
}

func TestMaxSessions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowAnyOrigin = true
	cfg.MaxSessions = 1
	srv := NewServer(cfg, counterView)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)
	handshakeWS(t, conn)
	readMutations(t, conn)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second dial succeeded past the session limit")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("rejection status = %v, want 503", resp)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	_, ts := startTestServer(t)

	tests := []struct {
		path     string
		contains string
	}{
		{"/", `<div id="app">`},
		{"/client.js", "FernClient"},
		{"/healthz", "ok"},
		{"/metrics", "fern_server_sessions_active"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("%s response missing %q", tt.path, tt.contains)
			}
		})
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
