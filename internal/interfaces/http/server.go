package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/debnit/MsmeBazaar-sub003/internal/config"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// Server runs the engine's HTTP API with graceful shutdown.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer binds a handler to the configured port.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
