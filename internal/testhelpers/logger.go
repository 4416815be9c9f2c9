package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/fitcoach/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink such as testhelpers.Writer.
func NewLogger(logSink io.Writer) *slog.Logger {
	return slog.New(logging.NewHandler(logSink, logging.FormatText, slog.LevelDebug, nil))
}

// NewTestLogger is a shorthand for NewLogger(NewWriter(t)).
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}
