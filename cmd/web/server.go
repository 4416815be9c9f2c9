package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/myrjola/fitcoach/internal/e2etest"
)

const shutdownTimeout = 5 * time.Second

// configureAndStartServer configures and starts the HTTP server. It returns after ctx is cancelled and the
// server has shut down.
func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	var err error
	shutdownComplete := make(chan struct{})
	idleTimeout := time.Minute
	srv := &http.Server{ //nolint:exhaustruct // defaults for the rest.
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       app.requestTimeout,
		WriteTimeout:      app.requestTimeout,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		<-ctx.Done()
		app.logger.LogAttrs(context.Background(), slog.LevelInfo, "shutting down server")

		shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownContext); shutdownErr != nil {
			app.logger.LogAttrs(context.Background(), slog.LevelError, "error shutting down server",
				slog.Any("error", fmt.Errorf("shutdown server: %w", shutdownErr)))
		}
		close(shutdownComplete)
	}()

	var listener net.Listener
	if listener, err = net.Listen("tcp", addr); err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.Any(e2etest.LogAddrKey, listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server serve: %w", err)
	}
	<-shutdownComplete

	return nil
}
