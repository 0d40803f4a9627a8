// Package server exposes the prediction service over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/config"
	"github.com/hmp229/psa-predict/internal/metrics"
	"github.com/hmp229/psa-predict/internal/service"
)

// Server is the JSON API server
type Server struct {
	httpServer  *http.Server
	predictions *service.PredictionService
	logger      *logrus.Logger
}

// NewServer creates the API server with its routes registered
func NewServer(cfg *config.Config, predictions *service.PredictionService, logger *logrus.Logger) *Server {
	s := &Server{
		predictions: predictions,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving in the background and shuts down when the context is
// cancelled
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown() error {
	s.logger.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
