package progress

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcoach/internal/docstore"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/motivation"
)

// DefaultPlannedPerWeek is the weekly workout target used when recomputing badges after a workout.
const DefaultPlannedPerWeek = 4

// ErrInvalidInput is returned for logs with negative durations or calories.
var ErrInvalidInput = errors.NewSentinel("invalid progress input")

// Document is the persisted progress of one user. Logs are kept newest first.
type Document struct {
	WorkoutLogs            []fitness.WorkoutLog   `json:"workoutLogs"`
	NutritionLogs          []fitness.NutritionLog `json:"nutritionLogs"`
	Badges                 []fitness.Badge        `json:"badges"`
	Reminders              []fitness.Reminder     `json:"reminders"`
	MotivationInteractions int                    `json:"motivationInteractions"`
}

func emptyDocument() Document {
	return Document{
		WorkoutLogs:            []fitness.WorkoutLog{},
		NutritionLogs:          []fitness.NutritionLog{},
		Badges:                 []fitness.Badge{},
		Reminders:              []fitness.Reminder{},
		MotivationInteractions: 0,
	}
}

// withDefaults replaces sequences missing from an older or hand-edited document with empty ones.
func (d Document) withDefaults() Document {
	if d.WorkoutLogs == nil {
		d.WorkoutLogs = []fitness.WorkoutLog{}
	}
	if d.NutritionLogs == nil {
		d.NutritionLogs = []fitness.NutritionLog{}
	}
	if d.Badges == nil {
		d.Badges = []fitness.Badge{}
	}
	if d.Reminders == nil {
		d.Reminders = []fitness.Reminder{}
	}
	return d
}

// WorkoutResult is the outcome of logging a workout.
type WorkoutResult struct {
	Log         fitness.WorkoutLog `json:"log"`
	Badges      []fitness.Badge    `json:"badges"`
	Celebration bool               `json:"celebration"`
}

// Report bundles every derived view of a user's progress.
type Report struct {
	Snapshot   fitness.ProgressSnapshot  `json:"snapshot"`
	Weekly     fitness.WeeklySummary     `json:"weeklySummary"`
	Trends     []fitness.TrendPoint      `json:"trends"`
	Engagement fitness.EngagementMetrics `json:"engagement"`
	Badges     []fitness.Badge           `json:"badges"`
	Reminders  []fitness.Reminder        `json:"reminders"`
}

// Service keeps progress documents under progress:<userId>.
type Service struct {
	docs   *docstore.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(docs *docstore.Store, logger *slog.Logger) *Service {
	return &Service{
		docs:   docs,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func key(userID string) string {
	return docstore.Key("progress", userID)
}

// Load returns the progress document of userID. Missing and corrupt documents are empty.
func (s *Service) Load(ctx context.Context, userID string) (Document, error) {
	doc, ok, err := docstore.Get[Document](ctx, s.docs, key(userID))
	if err != nil {
		return Document{}, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return emptyDocument(), nil
	}
	return doc.withDefaults(), nil
}

func (s *Service) update(ctx context.Context, userID string, fn func(doc Document) Document) (Document, error) {
	doc, err := docstore.Update(ctx, s.docs, key(userID), func(current Document, found bool) (Document, error) {
		if !found {
			current = emptyDocument()
		}
		return fn(current.withDefaults()), nil
	})
	if err != nil {
		return Document{}, fmt.Errorf("update progress: %w", err)
	}
	return doc, nil
}

// AddWorkoutLog records a completed workout dated today and recomputes the badges. Celebration reports whether
// the badge count grew.
func (s *Service) AddWorkoutLog(
	ctx context.Context,
	userID string,
	exerciseIDs []string,
	durationMin int,
) (WorkoutResult, error) {
	if durationMin < 0 {
		return WorkoutResult{}, errors.Wrap(ErrInvalidInput, "negative workout duration",
			slog.Int("duration_min", durationMin))
	}
	now := s.now()
	log := fitness.WorkoutLog{
		ID:          "log-" + s.newID(),
		UserID:      userID,
		Date:        fitness.FormatDate(now),
		ExerciseIDs: append([]string{}, exerciseIDs...),
		Completed:   true,
		DurationMin: durationMin,
	}

	var celebration bool
	doc, err := s.update(ctx, userID, func(doc Document) Document {
		doc.WorkoutLogs = slices.Insert(doc.WorkoutLogs, 0, log)
		snapshot := Snapshot(doc.WorkoutLogs, doc.NutritionLogs, DefaultPlannedPerWeek, now)
		badges := motivation.BuildBadges(snapshot.StreakDays, snapshot.TotalWorkouts, now)
		celebration = len(badges) > len(doc.Badges)
		doc.Badges = badges
		return doc
	})
	if err != nil {
		return WorkoutResult{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "logged workout",
		slog.String("user_id", userID), slog.Int("badges", len(doc.Badges)), slog.Bool("celebration", celebration))
	return WorkoutResult{Log: log, Badges: doc.Badges, Celebration: celebration}, nil
}

// AddNutritionLog records the meals eaten today.
func (s *Service) AddNutritionLog(
	ctx context.Context,
	userID string,
	mealIDs []string,
	calories int,
) (fitness.NutritionLog, error) {
	if calories < 0 {
		return fitness.NutritionLog{}, errors.Wrap(ErrInvalidInput, "negative calories", slog.Int("calories", calories))
	}
	log := fitness.NutritionLog{
		ID:       "nutrition-" + s.newID(),
		UserID:   userID,
		Date:     fitness.FormatDate(s.now()),
		MealIDs:  append([]string{}, mealIDs...),
		Calories: calories,
	}
	if _, err := s.update(ctx, userID, func(doc Document) Document {
		doc.NutritionLogs = slices.Insert(doc.NutritionLogs, 0, log)
		return doc
	}); err != nil {
		return fitness.NutritionLog{}, err
	}
	return log, nil
}

// HydrateReminders installs the default reminders when the user has none and returns the current reminders.
func (s *Service) HydrateReminders(ctx context.Context, userID string) ([]fitness.Reminder, error) {
	doc, err := s.update(ctx, userID, func(doc Document) Document {
		if len(doc.Reminders) == 0 {
			doc.Reminders = motivation.DefaultReminders()
		}
		return doc
	})
	if err != nil {
		return nil, err
	}
	return doc.Reminders, nil
}

// RecordMotivationInteraction counts a reminder sent to the user and returns the new total.
func (s *Service) RecordMotivationInteraction(ctx context.Context, userID string) (int, error) {
	doc, err := s.update(ctx, userID, func(doc Document) Document {
		doc.MotivationInteractions++
		return doc
	})
	if err != nil {
		return 0, err
	}
	return doc.MotivationInteractions, nil
}

// Report derives all progress views of userID against plannedPerWeek workouts.
func (s *Service) Report(ctx context.Context, userID string, plannedPerWeek int) (Report, error) {
	doc, err := s.Load(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	return Report{
		Snapshot:   Snapshot(doc.WorkoutLogs, doc.NutritionLogs, plannedPerWeek, now),
		Weekly:     Summary(doc.WorkoutLogs, doc.NutritionLogs, plannedPerWeek, now),
		Trends:     Trends(doc.WorkoutLogs, doc.NutritionLogs),
		Engagement: Engagement(doc.WorkoutLogs, doc.MotivationInteractions),
		Badges:     doc.Badges,
		Reminders:  doc.Reminders,
	}, nil
}
