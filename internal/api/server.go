package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fjacquet/sms-ledger/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// RouterOptions are the optional parts of the HTTP surface.
type RouterOptions struct {
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// Observer receives one call per request when set.
	Observer RequestObserver
}

// NewRouter builds the API routes behind recovery, metrics and logging middleware.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sms/parse", h.ParseSMS)
	mux.HandleFunc("GET /api/sms/transactions", h.ListTransactions)
	mux.HandleFunc("GET /api/sms/test", h.TestSamples)
	mux.HandleFunc("GET /healthz", h.Health)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	return Chain(mux,
		Recovery(h.logger),
		Logger(h.logger),
		Instrument(opts.Observer),
	)
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", logging.F("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
