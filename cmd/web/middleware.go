package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/trace"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/logging"
)

// writeMargin is reserved for writing the timeout response before the write deadline.
const writeMargin = 200 * time.Millisecond

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		headerWritten:  false,
	}
}

func (mw *statusResponseWriter) WriteHeader(statusCode int) {
	mw.ResponseWriter.WriteHeader(statusCode)

	if !mw.headerWritten {
		mw.statusCode = statusCode
		mw.headerWritten = true
	}
}

func (mw *statusResponseWriter) Write(b []byte) (int, error) {
	mw.headerWritten = true
	written, err := mw.ResponseWriter.Write(b)
	if err != nil {
		return written, fmt.Errorf("write response: %w", err)
	}
	return written, nil
}

func (mw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

// secureHeaders sets the headers of a JSON API that is never framed or rendered as a document.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none';")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAndTraceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		ctx := r.Context()
		traceID := rand.Text()
		ctx = logging.WithAttrs(
			ctx,
			slog.Any("trace_id", traceID),
			slog.String("proto", proto),
			slog.String("method", method),
			slog.String("uri", uri),
		)
		r = r.WithContext(ctx)

		start := time.Now()
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")

		sw := newStatusResponseWriter(w)

		if !trace.IsEnabled() {
			next.ServeHTTP(sw, r)
		} else {
			path := r.URL.Path
			traceCtx, task := trace.NewTask(ctx, fmt.Sprintf("HTTP %s %s", method, path))
			trace.Log(traceCtx, "request", fmt.Sprintf("method=%s path=%s proto=%s", method, path, proto))
			trace.Log(traceCtx, "trace_id", traceID)

			defer func() {
				trace.Log(traceCtx, "response", fmt.Sprintf("status=%d duration=%v", sw.statusCode, time.Since(start)))
				task.End()
			}()

			r = r.WithContext(traceCtx)
			next.ServeHTTP(sw, r)
		}

		level := slog.LevelInfo
		if sw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		// http.TimeoutHandler answers 503 when the handler runs out of time.
		if sw.statusCode == http.StatusServiceUnavailable && app.flightRecorder != nil {
			app.flightRecorder.Capture(r.Context(), "timeout")
		}
		app.logger.LogAttrs(r.Context(), level, "request completed",
			slog.Int("status_code", sw.statusCode), slog.Duration("duration", time.Since(start)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if excp := recover(); excp != nil {
				app.serverError(w, r, errors.DecoratePanic(excp))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// withCORS answers preflight requests and sets the CORS headers of allowed origins.
func (app *application) withCORS(next http.Handler) http.Handler {
	return app.cors.Handler(next)
}

// timeout times out the request and cancels the context using http.TimeoutHandler.
func (app *application) timeout(next http.Handler) http.Handler {
	return app.timeoutAfter(app.requestTimeout, next)
}

// generationTimeoutFor gives model calls the generation deadline which is longer than the server write timeout.
func (app *application) generationTimeoutFor(next http.Handler) http.Handler {
	return app.timeoutAfter(app.generationTimeout, next)
}

func (app *application) timeoutAfter(d time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d > app.requestTimeout {
			rc := http.NewResponseController(w)
			if err := rc.SetWriteDeadline(time.Now().Add(d)); err != nil {
				app.serverError(w, r, fmt.Errorf("extend write deadline: %w", err))
				return
			}
		}
		message := `{"error":"Request timed out."}`
		http.TimeoutHandler(next, d-writeMargin, message).ServeHTTP(w, r)
	})
}
