package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// startHTTPServer serves router until ctx is cancelled or the listener fails,
// then drains in-flight requests and releases resources.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", app.config.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return app.serve(ctx, listener, router)
}

func (app *application) serve(ctx context.Context, listener net.Listener, router http.Handler) error {
	server := &http.Server{
		Handler:      router,
		ReadTimeout:  time.Duration(app.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(app.config.Server.WriteTimeoutSeconds) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var failure error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case err := <-serveErr:
		if err != nil {
			app.logger.Error("server failed", "error", err)
			failure = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		if failure == nil {
			failure = fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")
	return failure
}
