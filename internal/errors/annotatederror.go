// Package errors annotates errors with structured slog attributes and the source location where they were
// wrapped. It re-exports the standard library helpers so that callers only need a single errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// annotatedError carries a message, structured annotations and the location of the Wrap call.
type annotatedError struct {
	err    error
	msg    string
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates a sentinel error meant to be declared as a package level variable. Sentinels carry no
// source location because the location of the declaration is meaningless.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// New creates an error annotated with the caller's source location and the given attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		err:    nil,
		msg:    msg,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip New and callerSource.
	}
}

// Wrap annotates err with msg, attrs, and the caller's source location. Wrapping a nil error returns nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{
		err:    err,
		msg:    msg,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip Wrap and callerSource.
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the line that panicked.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	return &annotatedError{
		err:    nil,
		msg:    fmt.Sprintf("panic: %v", excp),
		attrs:  nil,
		source: panicSource(),
	}
}

// SlogError renders err as an "error" group containing the message, the annotations collected from the whole
// chain, and the innermost source location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		source = ae.source
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// walk visits every annotatedError in the tree from the outermost to the innermost.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the chain manually.
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // we walk the chain manually.
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return shortFile(file) + ":" + strconv.Itoa(line)
}

// panicSource finds the frame right after runtime.gopanic, i.e. the line that called panic.
func panicSource() string {
	pcs := make([]uintptr, 32) //nolint:mnd // deep enough for recover handlers.
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSource.
	frames := runtime.CallersFrames(pcs[:n])
	sawPanic := false
	for {
		frame, more := frames.Next()
		if sawPanic {
			return shortFile(frame.File) + ":" + strconv.Itoa(frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			sawPanic = true
		}
		if !more {
			return ""
		}
	}
}

func shortFile(file string) string {
	if i := strings.LastIndex(file, "/"); i >= 0 {
		if j := strings.LastIndex(file[:i], "/"); j >= 0 {
			return file[j+1:]
		}
	}
	return file
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error { return stderrors.Unwrap(err) }

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error { return stderrors.Join(errs...) }
