// Package flightrecorder keeps a rolling runtime trace in memory and writes it to disk when a request times out.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 * 1024 * 1024
	defaultCooldown = 30 * time.Minute
)

// Service captures traces of slow requests. Captures closer together than the cooldown are skipped.
type Service struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	cooldown        time.Duration
	lastCapture     atomic.Int64
	now             func() time.Time
}

// Config configures the flight recorder. Zero durations and sizes use the defaults.
type Config struct {
	Logger          *slog.Logger
	MinAge          time.Duration
	MaxBytes        uint64
	Cooldown        time.Duration
	TracesDirectory string
}

func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}
	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, 0o700); err != nil { //nolint:mnd // owner only.
			return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.TracesDirectory))
		}
	} else if !stat.IsDir() {
		return nil, errors.New("traces path is not a directory", slog.String("dir", cfg.TracesDirectory))
	}

	cfg.MinAge = cmpOr(cfg.MinAge, defaultMinAge)
	cfg.MaxBytes = cmpOr(cfg.MaxBytes, defaultMaxBytes)
	cfg.Cooldown = cmpOr(cfg.Cooldown, defaultCooldown)

	return &Service{
		logger:          cfg.Logger,
		flightRecorder:  trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: cfg.MinAge, MaxBytes: cfg.MaxBytes}),
		tracesDirectory: cfg.TracesDirectory,
		cooldown:        cfg.Cooldown,
		lastCapture:     atomic.Int64{},
		now:             time.Now,
	}, nil
}

func cmpOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func (s *Service) Start(ctx context.Context) error {
	if err := s.flightRecorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", s.tracesDirectory), slog.Duration("cooldown", s.cooldown))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.flightRecorder.Stop()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded trace to <reason>-<timestamp>.trace unless a trace was captured within the
// cooldown. It returns the path of the written file, or an empty string when the capture was skipped.
func (s *Service) Capture(ctx context.Context, reason string) string {
	now := s.now()
	last := s.lastCapture.Load()
	if last > 0 && now.Sub(time.Unix(last, 0)) < s.cooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(last, 0)))
		return ""
	}
	if !s.lastCapture.CompareAndSwap(last, now.Unix()) {
		return ""
	}

	fPath := filepath.Join(s.tracesDirectory, fmt.Sprintf("%s-%s.trace", reason, now.UTC().Format("20060102-150405")))
	if err := s.write(fPath); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace", errors.SlogError(err))
		return ""
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace", slog.String("file", fPath), slog.String("reason", reason))
	return fPath
}

func (s *Service) write(fPath string) (err error) {
	file, err := os.Create(fPath)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", fPath))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close trace file", slog.String("file", fPath))
		}
	}()
	if _, err = s.flightRecorder.WriteTo(file); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", fPath))
	}
	return nil
}
