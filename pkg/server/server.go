package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	clientdist "github.com/fern-ui/fern/client/dist"
	"github.com/fern-ui/fern/pkg/vdom"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>fern</title>
</head>
<body>
<div id="app"></div>
<script src="/client.js"></script>
</body>
</html>
`

// Server serves a fern application: the bootstrap page, the thin client
// bundle, the WebSocket endpoint and operational endpoints.
type Server struct {
	cfg     *Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics

	view     func() *vdom.VNode
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// NewServer creates a server that renders view for every new session. view
// is called once per session and must return a fresh tree; sessions must not
// share component instances.
func NewServer(cfg *Config, view func() *vdom.VNode) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.fillDefaults()

	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		logger:   slog.Default().With("component", "server"),
		tracer:   otel.Tracer("fern/server"),
		metrics:  NewMetrics(registry),
		view:     view,
		sessions: map[string]*Session{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:    4096,
			WriteBufferSize:   4096,
			CheckOrigin:       cfg.CheckOrigin,
			EnableCompression: cfg.EnableCompression,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/client.js", s.handleClientJS)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// Handler returns the HTTP handler, for embedding in a larger mux or test
// server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully within ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.cfg.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown closes all sessions and stops the HTTP server.
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down")

	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout))
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

func (s *Server) handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(clientdist.FernJS)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxSessions > 0 && s.SessionCount() >= s.cfg.MaxSessions {
		s.logger.Warn("rejecting connection", "error", ErrTooManySessions)
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.cfg, s.view, s.logger, s.tracer, s.metrics)
	sess.onClose = s.removeSession

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	s.metrics.SessionsActive.Inc()
	s.metrics.SessionsTotal.Inc()

	if err := sess.handshake(); err != nil {
		s.logger.Error("handshake failed", "error", err)
		s.metrics.Errors.WithLabelValues("handshake").Inc()
		sess.Close()
		return
	}

	go sess.WriteLoop()
	go sess.ReadLoop()
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()
}
