package testhelpers

import (
	"io"
	"strings"
	"sync"
	"testing"
)

// Writer implements io.Writer and writes to t.Log so that logs only show up for failed tests.
type Writer struct {
	t    *testing.T
	mu   sync.Mutex
	done bool
}

// NewWriter creates a Writer bound to t. Writing after the test has finished panics, which catches background
// goroutines such as the HTTP server outliving the test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t, mu: sync.Mutex{}, done: false}
	t.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		panic("testwriter: attempted to write after test completion. Did you remember to t.Cleanup(server.Shutdown)?")
	}
	if output := strings.TrimSuffix(string(p), "\n"); output != "" {
		w.t.Log(output)
	}
	return len(p), nil
}
