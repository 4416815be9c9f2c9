package e2etest

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/planclient"
	"github.com/myrjola/fitcoach/internal/profile"
)

// NewUserID returns a throwaway user id that does not collide with real users.
func NewUserID() string {
	return "smoke-" + rand.Text()
}

// SmokeScenario onboards userID, generates a fallback plan, logs the first workout of the plan and reads the
// progress report.
func SmokeScenario(ctx context.Context, client *planclient.Client, userID string) error {
	_, err := client.CompleteOnboarding(ctx, userID, profile.OnboardingInput{
		Age:             30,
		WeightKg:        70,
		Goals:           []fitness.Goal{fitness.GoalGeneralFitness},
		Equipment:       nil,
		ScheduleDays:    3,
		ConsentAccepted: true,
	})
	if err != nil {
		return fmt.Errorf("complete onboarding: %w", err)
	}

	p, err := client.GenerateFallbackPlan(ctx, userID)
	if err != nil {
		return fmt.Errorf("generate fallback plan: %w", err)
	}
	if len(p.WeeklyPlan) == 0 {
		return fmt.Errorf("fallback plan %s has no days", p.ID)
	}

	var exerciseIDs []string
	for _, e := range p.WeeklyPlan[0].Workout {
		exerciseIDs = append(exerciseIDs, e.ID)
	}
	if _, err = client.LogWorkout(ctx, userID, planclient.WorkoutLogRequest{
		ExerciseIDs: exerciseIDs,
		DurationMin: 30, //nolint:mnd // a typical session.
	}); err != nil {
		return fmt.Errorf("log workout: %w", err)
	}

	report, err := client.Progress(ctx, userID, 3) //nolint:mnd // matches the schedule above.
	if err != nil {
		return fmt.Errorf("read progress: %w", err)
	}
	if report.Snapshot.TotalWorkouts != 1 {
		return fmt.Errorf("progress reports %d workouts, want 1", report.Snapshot.TotalWorkouts)
	}
	return nil
}
