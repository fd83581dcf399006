package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lowkh/coewatch/pkg/config"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Request bodies are small scenario overrides, so reads are cheap. The
// write side has to outlast a full prediction round trip to the model
// server, which writeTimeout accounts for below.
const (
	readTimeout      = 10 * time.Second
	idleTimeout      = 60 * time.Second
	writeTimeoutSlop = 5 * time.Second
)

// Server wraps http.Server with lifecycle logging.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

// New builds the API server. The write timeout is derived from the
// model server timeout so a slow prediction is failed by the model
// client, with its 502 mapping, rather than cut off mid-response.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	writeTimeout := cfg.Model.Timeout + writeTimeoutSlop
	if writeTimeout < readTimeout {
		writeTimeout = readTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: log,
		config: cfg,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"port":          s.config.Port,
		"env":           s.config.Env,
		"write_timeout": s.httpServer.WriteTimeout.String(),
	}).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
