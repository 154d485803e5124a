package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

// wsPair upgrades one connection and hands back both ends.
func wsPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	connCh := make(chan *websocket.Conn, 1)
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- c
	}))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return <-connCh, client
}

func TestWriteLoopClosesSessionOnHeartbeatFailure(t *testing.T) {
	serverConn, clientConn := wsPair(t)

	cfg := DefaultConfig()
	cfg.HeartbeatInterval = Duration(10 * time.Millisecond)
	sess := newSession(serverConn, cfg, counterView, slog.Default(), otel.Tracer("test"), NewMetrics(prometheus.NewRegistry()))

	done := make(chan struct{})
	go func() {
		sess.WriteLoop()
		close(done)
	}()

	// Drop the peer: the next heartbeat write must fail and tear the
	// session down itself, not wait for a read deadline.
	clientConn.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WriteLoop did not return after the connection dropped")
	}
	if !sess.closed.Load() {
		t.Error("heartbeat failure left the session open")
	}
}
