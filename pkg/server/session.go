package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fern-ui/fern/pkg/protocol"
	"github.com/fern-ui/fern/pkg/vdom"
)

// Session is one connected client: a WebSocket connection plus the host tree
// it renders. All reconciliation for a session runs on its read loop
// goroutine, so components need no locking of their own.
type Session struct {
	id      string
	conn    *websocket.Conn
	cfg     *Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics

	host *RemoteHost
	rec  *vdom.Reconciler
	view func() *vdom.VNode

	seq        atomic.Uint64
	lastActive atomic.Int64
	closed     atomic.Bool
	done       chan struct{}
	writeMu    sync.Mutex

	onClose func(*Session)
}

func newSession(conn *websocket.Conn, cfg *Config, view func() *vdom.VNode, logger *slog.Logger, tracer trace.Tracer, metrics *Metrics) *Session {
	id := ulid.Make().String()
	host := NewRemoteHost()
	s := &Session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		logger:  logger.With("session", id),
		tracer:  tracer,
		metrics: metrics,
		host:    host,
		rec:     vdom.NewReconciler(host),
		view:    view,
		done:    make(chan struct{}),
	}
	s.touch()
	return s
}

// ID returns the session's ULID.
func (s *Session) ID() string { return s.id }

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixMilli())
}

// handshake waits for the client hello, replies, and sends the initial
// render. It must complete before the read loop starts.
func (s *Session) handshake() error {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.ReadTimeout)))

	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	ft, payload, err := protocol.DecodeFrame(msg)
	if err != nil {
		return err
	}
	if ft != protocol.FrameHandshake {
		return ErrHandshakeRequired
	}
	hello, err := protocol.DecodeClientHello(payload)
	if err != nil {
		return err
	}
	s.logger.Info("client connected", "user_agent", hello.UserAgent)

	reply, err := protocol.EncodeServerHello(&protocol.ServerHello{
		Protocol: protocol.Version,
		Session:  s.id,
	})
	if err != nil {
		return err
	}
	if err := s.write(protocol.FrameHandshake, reply); err != nil {
		return err
	}

	// Initial render: mount the whole tree and stream it as one batch.
	s.rec.Render(s.view(), s.host.Root())
	return s.flush()
}

// ReadLoop reads frames until the connection drops. It blocks; run it on a
// dedicated goroutine.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.ReadTimeout)))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.metrics.Errors.WithLabelValues("read").Inc()
			}
			return
		}
		s.touch()

		ft, payload, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.metrics.Errors.WithLabelValues("decode").Inc()
			continue
		}

		switch ft {
		case protocol.FrameEvent:
			s.handleEventFrame(payload)
		case protocol.FramePing:
			s.handlePing(payload)
		case protocol.FramePong:
			// Client answered our heartbeat; touch() above already counted it.
		case protocol.FrameClose:
			code, reason, err := protocol.DecodeClose(payload)
			if err == nil {
				s.logger.Info("client closing", "code", code, "reason", reason)
			}
			return
		default:
			s.logger.Warn("unexpected frame type", "type", ft.String())
		}
	}
}

// handleEventFrame dispatches one client event into the component tree and
// flushes the mutations it produced.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		s.metrics.Errors.WithLabelValues("decode").Inc()
		return
	}

	_, span := s.tracer.Start(context.Background(), "session.event",
		trace.WithAttributes(
			attribute.String("fern.session", s.id),
			attribute.String("fern.event", ev.Name),
			attribute.Int64("fern.node", int64(ev.Node)),
		))
	defer span.End()

	start := time.Now()
	handled := s.host.Dispatch(ev)
	if !handled {
		// Stale node id or listener already removed; nothing to flush.
		s.logger.Debug("event ignored", "event", ev.Name, "node", ev.Node)
		span.SetAttributes(attribute.Bool("fern.handled", false))
		return
	}

	s.metrics.EventsTotal.WithLabelValues(ev.Name).Inc()
	if err := s.flush(); err != nil {
		s.logger.Error("flush error", "error", err)
		s.metrics.Errors.WithLabelValues("write").Inc()
		return
	}
	s.metrics.EventDuration.Observe(time.Since(start).Seconds())
}

// handlePing echoes the client's timestamp back as a pong.
func (s *Session) handlePing(payload []byte) {
	ts, err := protocol.DecodePing(payload)
	if err != nil {
		return
	}
	if err := s.write(protocol.FramePong, protocol.EncodePing(ts)); err != nil {
		s.logger.Error("pong error", "error", err)
	}
}

// flush drains the host's op buffer into one mutations frame. A flush with
// no pending ops writes nothing.
func (s *Session) flush() error {
	ops := s.host.Flush()
	if len(ops) == 0 {
		return nil
	}
	payload := protocol.EncodeOps(s.seq.Add(1), ops)
	if err := s.write(protocol.FrameMutations, payload); err != nil {
		return err
	}
	s.metrics.OpsSent.Add(float64(len(ops)))
	return nil
}

// write sends one frame, serializing writers.
func (s *Session) write(ft protocol.FrameType, payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	data := protocol.EncodeFrame(ft, payload)
	s.conn.SetWriteDeadline(time.Now().Add(time.Duration(s.cfg.WriteTimeout)))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.metrics.BytesSent.Add(float64(len(data)))
	return nil
}

// WriteLoop sends heartbeats and enforces the idle timeout. It returns when
// the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.HeartbeatInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			idle := time.Since(time.UnixMilli(s.lastActive.Load()))
			if idle > time.Duration(s.cfg.IdleTimeout) {
				s.logger.Info("closing idle session", "idle", idle)
				s.write(protocol.FrameClose, protocol.EncodeClose(protocol.CloseIdleTimeout, "idle timeout"))
				s.Close()
				return
			}
			if err := s.write(protocol.FramePing, protocol.EncodePing(uint64(time.Now().UnixMilli()))); err != nil {
				// Don't leave teardown to the read deadline.
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	s.conn.Close()
	s.metrics.SessionsActive.Dec()
	if s.onClose != nil {
		s.onClose(s)
	}
	s.logger.Info("session closed")
}
