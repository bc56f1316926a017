package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; serve errors after that are logged.
func (s *Server) Start() (net.Addr, error) {
	log := logger.WithComponent("server")

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, err
	}

	log.Info().Str("addr", ln.Addr().String()).Msg("Starting status server")

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Status server error")
		}
	}()

	return ln.Addr(), nil
}

func (s *Server) Stop(ctx context.Context) error {
	log := logger.WithComponent("server")
	log.Info().Msg("Shutting down status server...")

	return s.httpServer.Shutdown(ctx)
}
