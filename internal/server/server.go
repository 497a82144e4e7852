package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/edaniels/golog"

	"github.com/soar/roverctl/internal/hub"
)

type Server struct {
	logger      golog.Logger
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	commander   hub.Commander
	staticFS    fs.FS
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, cmd hub.Commander, staticFS fs.FS, addr string, logger golog.Logger) *Server {
	return &Server{
		logger:      logger,
		hub:         h,
		broadcaster: b,
		commander:   cmd,
		staticFS:    staticFS,
		addr:        addr,
	}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.commander, s.logger))

	// Static status page
	fileServer := http.FileServer(http.FS(s.staticFS))
	mux.Handle("/", fileServer)

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.logger.Infow("http server listening", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down http server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
