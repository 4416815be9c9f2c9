package weeklyplan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitcoach/internal/logging"
)

// Service generates plans and serves stored ones.
type Service struct {
	store     Store
	generator Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a service. A nil generator means no provider is configured and Generate fails with
// ErrProviderNotConfigured.
func NewService(store Store, generator Generator, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Configured reports whether plans can be generated.
func (s *Service) Configured() bool {
	return s.generator != nil
}

// Generate creates a plan for req and stores it under (req.UserID, planId), replacing an earlier plan with the
// same key.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if !s.Configured() {
		return Result{}, ErrProviderNotConfigured
	}
	now := s.now()
	planID := PlanID(req.StartDate, req.Days, now)
	ctx = logging.WithAttrs(ctx, slog.String("user_id", req.UserID), slog.String("plan_id", planID))

	p, err := s.generator.Generate(ctx, GenerationInput{Inputs: req.Inputs, Days: req.Days})
	if err != nil {
		return Result{}, fmt.Errorf("generate plan: %w", err)
	}

	doc := Document{
		Week:      ISOWeekKey(now),
		PlanID:    planID,
		UserID:    req.UserID,
		StartDate: req.StartDate,
		Days:      req.Days,
		Plan:      p,
		Inputs:    req.Inputs,
		CreatedAt: now,
	}
	if err = s.store.Save(ctx, doc); err != nil {
		return Result{}, fmt.Errorf("save plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "stored weekly plan")

	return Result{
		Week:      doc.Week,
		PlanID:    doc.PlanID,
		StartDate: doc.StartDate,
		Days:      doc.Days,
		Plan:      doc.Plan,
	}, nil
}

// Get returns the plan stored for userID under the key derived from startDate and days, or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string, startDate *string, days int) (Document, error) {
	doc, err := s.store.Get(ctx, userID, PlanID(startDate, days, s.now()))
	if err != nil {
		return Document{}, fmt.Errorf("get plan: %w", err)
	}
	return doc, nil
}
