package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server runs the status listener in the background of a pipeline run.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	addr   string
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(handler, "status"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With(slog.String("component", "status_server")),
		addr:   addr,
	}
}

// Start binds the listener and serves in a goroutine. Errors after a
// successful bind are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status server stopped", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("Status server listening", slog.String("addr", s.addr))
	return nil
}

// Addr returns the bound address, useful with port 0.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
