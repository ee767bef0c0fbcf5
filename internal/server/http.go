package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds how long Stop waits for in-flight requests.
const DefaultShutdownTimeout = 15 * time.Second

// HTTPService adapts an http.Server to Service.
type HTTPService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService wraps srv.
//
// Precondition: srv and logger must be non-nil.
func NewHTTPService(srv *http.Server, logger *zap.Logger) *HTTPService {
	return &HTTPService{srv: srv, shutdownTimeout: DefaultShutdownTimeout, logger: logger}
}

// Start serves until Stop is called.
//
// Postcondition: Returns nil after a graceful Stop, or the listener error.
func (h *HTTPService) Start() error {
	h.logger.Info("http listening", zap.String("addr", h.srv.Addr))
	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests for up to the shutdown timeout, then closes
// remaining connections.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown incomplete", zap.Error(err))
		_ = h.srv.Close()
	}
}
