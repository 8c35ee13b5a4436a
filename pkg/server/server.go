package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/reactive"
)

//go:embed client.js
var clientJS []byte

// Mount builds the application tree into a fresh per-session document.
//
// Implementations must create their reactive state inside the call: a cell
// shared across documents would run one session's effects inline on another
// session's goroutine. Durable state is shared through storage, not cells.
type Mount func(doc *dom.Document)

// Server serves the page shell over HTTP and live sessions over websocket.
type Server struct {
	config     *Config
	mount      Mount
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New creates a server. The mount function runs once per session against
// that session's own document.
func New(config *Config, mount Mount) *Server {
	config = config.withDefaults()
	return &Server{
		config: config,
		mount:  mount,
		logger: config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Sessions are same-origin by construction; the page and the
			// socket are served by this process.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler: page shell, client script, websocket
// endpoint and, when enabled, Prometheus metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/grain/client.js", s.handleClientJS)
	r.Get("/grain/ws", s.handleWS)

	if s.config.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handlePage renders the initial tree server-side so the first paint does
// not wait for the socket. The client script replaces it with the live tree
// from the handshake.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc := dom.NewDocument()
	scope := reactive.NewScope(nil)
	scope.Run(func() {
		s.mount(doc)
	})
	body := doc.HTML()
	scope.Dispose()
	reactive.ReleaseTracking()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
%s
<script src="/grain/client.js"></script>
</html>
`, s.config.PageTitle, body)
}

func (s *Server) handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(clientJS)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.config, s.mount)
	s.logger.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)
	go sess.run()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
