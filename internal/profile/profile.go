// Package profile stores what onboarding collects about a user together with their presentation preferences.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/fitcoach/internal/docstore"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
)

var (
	ErrInvalidInput = errors.NewSentinel("invalid profile input")
	ErrNotFound     = errors.NewSentinel("profile not found")
)

const maxScheduleDays = 7

// OnboardingInput is the questionnaire answered during onboarding.
type OnboardingInput struct {
	Age             int            `json:"age"`
	WeightKg        float64        `json:"weightKg"`
	Goals           []fitness.Goal `json:"goals"`
	Equipment       []string       `json:"equipment"`
	ScheduleDays    int            `json:"scheduleDays"`
	ConsentAccepted bool           `json:"consentAccepted"`
}

func (in OnboardingInput) validate() error {
	switch {
	case in.Age <= 0:
		return errors.Wrap(ErrInvalidInput, "age must be positive", slog.Int("age", in.Age))
	case in.WeightKg <= 0:
		return errors.Wrap(ErrInvalidInput, "weightKg must be positive", slog.Float64("weight_kg", in.WeightKg))
	case len(in.Goals) == 0:
		return errors.Wrap(ErrInvalidInput, "at least one goal is required")
	case in.ScheduleDays < 1 || in.ScheduleDays > maxScheduleDays:
		return errors.Wrap(ErrInvalidInput, "scheduleDays must be between 1 and 7",
			slog.Int("schedule_days", in.ScheduleDays))
	}
	for _, g := range in.Goals {
		if !g.Valid() {
			return errors.Wrap(ErrInvalidInput, "unknown goal", slog.String("goal", string(g)))
		}
	}
	return nil
}

// PreferencesUpdate changes only the fields that are set.
type PreferencesUpdate struct {
	HighContrast    *bool              `json:"highContrast"`
	FontScale       *fitness.FontScale `json:"fontScale"`
	Locale          *string            `json:"locale"`
	ConsentAccepted *bool              `json:"consentAccepted"`
}

// Service keeps profiles under profile:<userId>.
type Service struct {
	docs   *docstore.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(docs *docstore.Store, logger *slog.Logger) *Service {
	return &Service{docs: docs, logger: logger, now: time.Now}
}

func key(userID string) string {
	return docstore.Key("profile", userID)
}

// Get returns the profile of userID or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (fitness.UserProfile, error) {
	p, ok, err := docstore.Get[fitness.UserProfile](ctx, s.docs, key(userID))
	if err != nil {
		return fitness.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return fitness.UserProfile{}, ErrNotFound
	}
	return p, nil
}

// CompleteOnboarding overwrites the profile with the onboarding answers. The creation time and the preferences
// of an earlier profile are kept, except for consent which the questionnaire answers again.
func (s *Service) CompleteOnboarding(
	ctx context.Context,
	userID string,
	email string,
	in OnboardingInput,
) (fitness.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return fitness.UserProfile{}, errors.Wrap(ErrInvalidInput, "userId is required")
	}
	if err := in.validate(); err != nil {
		return fitness.UserProfile{}, err
	}
	now := s.now()
	p, err := docstore.Update(ctx, s.docs, key(userID),
		func(current fitness.UserProfile, found bool) (fitness.UserProfile, error) {
			createdAt, prefs := now, fitness.DefaultPreferences()
			if found {
				createdAt, prefs = current.CreatedAt, current.Preferences
			}
			prefs.ConsentAccepted = in.ConsentAccepted
			return fitness.UserProfile{
				UID:                userID,
				Email:              email,
				Age:                in.Age,
				WeightKg:           in.WeightKg,
				Goals:              slices.Clone(in.Goals),
				Equipment:          append([]string{}, in.Equipment...),
				ScheduleDays:       in.ScheduleDays,
				OnboardingComplete: true,
				CreatedAt:          createdAt,
				UpdatedAt:          now,
				Preferences:        prefs,
			}, nil
		})
	if err != nil {
		return fitness.UserProfile{}, fmt.Errorf("store profile: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "completed onboarding", slog.String("user_id", userID))
	return p, nil
}

// UpdatePreferences merges upd into the preferences of an existing profile.
func (s *Service) UpdatePreferences(
	ctx context.Context,
	userID string,
	upd PreferencesUpdate,
) (fitness.UserProfile, error) {
	if upd.FontScale != nil {
		switch *upd.FontScale {
		case fitness.FontScaleNormal, fitness.FontScaleLarge, fitness.FontScaleXLarge:
		default:
			return fitness.UserProfile{}, errors.Wrap(ErrInvalidInput, "unknown font scale",
				slog.String("font_scale", string(*upd.FontScale)))
		}
	}
	p, err := docstore.Update(ctx, s.docs, key(userID),
		func(current fitness.UserProfile, found bool) (fitness.UserProfile, error) {
			if !found {
				return current, ErrNotFound
			}
			if upd.HighContrast != nil {
				current.Preferences.HighContrast = *upd.HighContrast
			}
			if upd.FontScale != nil {
				current.Preferences.FontScale = *upd.FontScale
			}
			if upd.Locale != nil {
				current.Preferences.Locale = *upd.Locale
			}
			if upd.ConsentAccepted != nil {
				current.Preferences.ConsentAccepted = *upd.ConsentAccepted
			}
			current.UpdatedAt = s.now()
			return current, nil
		})
	if err != nil {
		return fitness.UserProfile{}, fmt.Errorf("update preferences: %w", err)
	}
	return p, nil
}
