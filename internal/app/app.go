// Package app assembles and runs the wordfinder API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/wordfinder/internal/session"
	"github.com/stacklok/wordfinder/internal/telemetry"
)

// ServerApp holds everything needed to run the API server
// and shut it down gracefully
type ServerApp struct {
	manager        *session.Manager
	httpServer     *http.Server
	tracerProvider trace.TracerProvider

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the session janitor and the HTTP server.
// It blocks until the HTTP server stops or fails.
func (app *ServerApp) Start() error {
	go func() {
		if err := app.manager.Start(app.ctx); err != nil {
			slog.Error("Session janitor failed", "error", err)
		}
	}()

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop stops the session janitor, then shuts the HTTP server down within timeout
func (app *ServerApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if err := app.manager.Stop(); err != nil {
		slog.Error("Failed to stop session janitor", "error", err)
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if err := telemetry.ShutdownTracerProvider(shutdownCtx, app.tracerProvider); err != nil {
		slog.Error("Failed to flush traces", "error", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetHTTPServer returns the HTTP server
func (app *ServerApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetSessionManager returns the session manager behind the API
func (app *ServerApp) GetSessionManager() *session.Manager {
	return app.manager
}
