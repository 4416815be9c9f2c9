package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/myrjola/fitcoach/internal/e2etest"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/planclient"
	"github.com/myrjola/fitcoach/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	readyTimeout            = 30 * time.Second
	setupTimeout            = 30 * time.Second
	scenarioTimeout         = 30 * time.Second
	historyTimeout          = 2 * time.Minute
	maxConcurrentSetups     = 10
	maxConcurrentOperations = 20
	successRateThreshold    = 95.0
	expectedArgsCount       = 3
	percentageMultiplier    = 100
	historyEntries          = 20
	baseCalories            = 400
	caloriesRange           = 400
	baseDuration            = 20
	durationRange           = 40
)

// SetupUsers onboards numUsers throwaway users with the smoke scenario. Users that fail are left out.
func SetupUsers(ctx context.Context, client *planclient.Client, numUsers int, logger *slog.Logger) []string {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting user setup", slog.Int("num_users", numUsers))

	results := make([]string, numUsers)
	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetups)
	for i := range numUsers {
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(gctx, setupTimeout)
			defer cancel()
			userID := e2etest.NewUserID()
			if err := e2etest.SmokeScenario(userCtx, client, userID); err != nil {
				failed.Add(1)
				logger.LogAttrs(userCtx, slog.LevelWarn, "User setup failed",
					slog.Int("user_index", i), errors.SlogError(err))
				return nil
			}
			results[i] = userID
			return nil
		})
	}
	_ = g.Wait()

	users := make([]string, 0, numUsers)
	for _, userID := range results {
		if userID != "" {
			users = append(users, userID)
		}
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "User setup completed",
		slog.Int("successful_count", len(users)), slog.Int64("failed_count", failed.Load()))
	return users
}

// GenerateHistory logs a series of workouts and meals for userID so that the analytics have data to work on.
func GenerateHistory(ctx context.Context, client *planclient.Client, userID string) error {
	for i := range historyEntries {
		if _, err := client.LogWorkout(ctx, userID, planclient.WorkoutLogRequest{
			ExerciseIDs: []string{"ex-squat", "ex-pushup", "ex-plank"},
			DurationMin: baseDuration + i%durationRange,
		}); err != nil {
			return fmt.Errorf("log workout %d: %w", i, err)
		}
		if _, err := client.LogNutrition(ctx, userID, planclient.NutritionLogRequest{
			MealIDs:  []string{"meal-oats", "meal-chicken-bowl"},
			Calories: baseCalories + (i*37)%caloriesRange, //nolint:mnd // spread the values.
		}); err != nil {
			return fmt.Errorf("log nutrition %d: %w", i, err)
		}
	}
	return nil
}

// ProgressScenario is what a user does after a session: log it, check progress and read the held plan.
func ProgressScenario(ctx context.Context, client *planclient.Client, userID string, logger *slog.Logger) error {
	result, err := client.LogWorkout(ctx, userID, planclient.WorkoutLogRequest{
		ExerciseIDs: []string{"ex-burpee", "ex-mountain-climber"},
		DurationMin: baseDuration + int(time.Now().UnixNano()%durationRange),
	})
	if err != nil {
		return fmt.Errorf("log workout: %w", err)
	}
	if _, err = client.SendReminder(ctx, userID); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	report, err := client.Progress(ctx, userID, 4) //nolint:mnd // weekly target.
	if err != nil {
		return fmt.Errorf("read progress: %w", err)
	}
	p, err := client.LoadPlan(ctx, userID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	if p == nil {
		return fmt.Errorf("user %s has no plan", userID)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "Progress scenario completed",
		slog.String("user_id", userID),
		slog.Int("total_workouts", report.Snapshot.TotalWorkouts),
		slog.Bool("celebration", result.Celebration))
	return nil
}

// RunLoadTest runs ProgressScenario for every user concurrently and fails below the success rate threshold.
func RunLoadTest(ctx context.Context, client *planclient.Client, users []string, logger *slog.Logger) error {
	userCount := len(users)
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_users", userCount))
	if userCount == 0 {
		return errors.New("no users to test with")
	}

	var successCount, failureCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)
	for _, userID := range users {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(gctx, scenarioTimeout)
			defer cancel()

			if err := ProgressScenario(scenarioCtx, client, userID, logger); err != nil {
				failureCount.Add(1)
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("user_id", userID), errors.SlogError(err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(userCount) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return errors.New("success rate below threshold", slog.Float64("success_rate", successRate))
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> <users>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	numUsers, err := strconv.Atoi(os.Args[2])
	if err != nil || numUsers < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "users must be a positive integer", slog.String("users", os.Args[2]))
		os.Exit(1)
	}
	start := time.Now()
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client := planclient.New(url, &http.Client{Timeout: scenarioTimeout}) //nolint:exhaustruct // defaults.
	if err = client.WaitForReady(ctx, "/api/healthy", readyTimeout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}

	users := SetupUsers(ctx, client, numUsers, logger)

	historyStart := time.Now()
	historyCtx, cancel := context.WithTimeout(ctx, historyTimeout)
	g, gctx := errgroup.WithContext(historyCtx)
	g.SetLimit(maxConcurrentSetups)
	for _, userID := range users {
		g.Go(func() error {
			if historyErr := GenerateHistory(gctx, client, userID); historyErr != nil {
				return fmt.Errorf("user %s: %w", userID, historyErr)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "some history generation failed, continuing with load test",
			errors.SlogError(err))
	}
	cancel()
	logger.LogAttrs(ctx, slog.LevelInfo, "History generation completed",
		slog.Duration("history_duration", time.Since(historyStart)))

	loadTestStart := time.Now()
	if err = RunLoadTest(ctx, client, users, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Duration("load_test_duration", time.Since(loadTestStart)),
		slog.Int("users_tested", len(users)))
}
