package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcoach/internal/fitness"
)

// Documents is the key-value storage the held plan lives in.
type Documents interface {
	GetRaw(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// Service manages the plan a user currently holds, stored under plan:<userId>.
type Service struct {
	docs      Documents
	generator *Generator
	catalog   Catalog
	logger    *slog.Logger
}

func NewService(docs Documents, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{
		docs:      docs,
		generator: NewGenerator(catalog),
		catalog:   catalog,
		logger:    logger,
	}
}

func key(userID string) string {
	return "plan:" + userID
}

// GenerateFallback derives a rule-based plan from profile and stores it as the held plan.
func (s *Service) GenerateFallback(ctx context.Context, profile fitness.UserProfile) (fitness.GeneratedPlan, error) {
	p := s.generator.Generate(profile)
	if err := s.docs.Put(ctx, key(profile.UID), p); err != nil {
		return fitness.GeneratedPlan{}, fmt.Errorf("store generated plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated fallback plan",
		slog.String("user_id", profile.UID), slog.String("plan_id", p.ID))
	return p, nil
}

// Load returns the held plan of userID in normalized form, or nil when there is none or it cannot be read as a
// plan. The normalized form is written back so that later reads see repaired prescriptions.
func (s *Service) Load(ctx context.Context, userID string) (*fitness.GeneratedPlan, error) {
	data, ok, err := s.docs.GetRaw(ctx, key(userID))
	if err != nil {
		return nil, fmt.Errorf("read held plan: %w", err)
	}
	if !ok {
		return nil, nil
	}
	p, err := NormalizeJSON(data, s.catalog)
	if errors.Is(err, ErrCorruptPlan) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding corrupt held plan", slog.String("user_id", userID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("normalize held plan: %w", err)
	}
	if err = s.docs.Put(ctx, key(userID), p); err != nil {
		return nil, fmt.Errorf("rewrite normalized plan: %w", err)
	}
	return &p, nil
}

// Save normalizes p and stores it as the held plan of p.UserID, replacing any previous plan.
func (s *Service) Save(ctx context.Context, p fitness.GeneratedPlan) (fitness.GeneratedPlan, error) {
	if p.UserID == "" {
		return fitness.GeneratedPlan{}, errors.New("plan has no user id")
	}
	normalized := Normalize(p, s.catalog)
	if err := s.docs.Put(ctx, key(p.UserID), normalized); err != nil {
		return fitness.GeneratedPlan{}, fmt.Errorf("store plan: %w", err)
	}
	return normalized, nil
}

// Clear drops the held plan of userID. Clearing when no plan is held is not an error.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.docs.Delete(ctx, key(userID)); err != nil {
		return fmt.Errorf("clear held plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cleared held plan", slog.String("user_id", userID))
	return nil
}
