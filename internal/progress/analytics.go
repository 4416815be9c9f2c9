// Package progress derives streaks, summaries and engagement metrics from workout and nutrition logs and keeps
// the per-user progress document.
//
// The analytics functions are pure: they only look at the logs passed in and the given now.
package progress

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/myrjola/fitcoach/internal/fitness"
)

const (
	streakLookbackDays = 365
	trendBuckets       = 7
)

func completedDates(workouts []fitness.WorkoutLog) map[string]struct{} {
	dates := make(map[string]struct{})
	for _, log := range workouts {
		if log.Completed {
			dates[log.Date] = struct{}{}
		}
	}
	return dates
}

func countCompleted(workouts []fitness.WorkoutLog) int {
	n := 0
	for _, log := range workouts {
		if log.Completed {
			n++
		}
	}
	return n
}

// Streak counts consecutive days with a completed workout, going back from now. A day without a workout ends
// the streak, except for today which may still be trained.
func Streak(workouts []fitness.WorkoutLog, now time.Time) int {
	dates := completedDates(workouts)
	y, m, d := now.Date()
	streak := 0
	for offset := range streakLookbackDays {
		day := fitness.FormatDate(time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location()))
		if _, ok := dates[day]; ok {
			streak++
			continue
		}
		if offset > 0 {
			break
		}
	}
	return streak
}

// WeeklyCompletion is the share of plannedPerWeek covered by completed workouts, in percent and capped at 100.
// It is 0 when nothing is planned.
func WeeklyCompletion(workouts []fitness.WorkoutLog, plannedPerWeek int) int {
	if plannedPerWeek <= 0 {
		return 0
	}
	rate := int(math.Round(float64(countCompleted(workouts)) / float64(plannedPerWeek) * 100)) //nolint:mnd // percent.
	return min(100, rate) //nolint:mnd // percent.
}

// Milestones returns the thresholds reached by the logs, stamped with now.
func Milestones(workouts []fitness.WorkoutLog, nutrition []fitness.NutritionLog, now time.Time) []fitness.Milestone {
	completed := countCompleted(workouts)
	meals := 0
	for _, log := range nutrition {
		meals += len(log.MealIDs)
	}

	milestones := []fitness.Milestone{}
	add := func(id, title, detail string) {
		milestones = append(milestones, fitness.Milestone{ID: id, Title: title, AchievedAt: now, Detail: detail})
	}
	if completed >= 1 {
		add("m-first-workout", "First Workout Complete", "You completed your first workout log. Strong start.")
	}
	if completed >= 5 { //nolint:mnd // threshold.
		add("m-five-workouts", "Five Workout Sessions", "You reached five completed workouts.")
	}
	if meals >= 10 { //nolint:mnd // threshold.
		add("m-ten-meals", "Nutrition Consistency", "You tracked 10 meals. Nutrition momentum unlocked.")
	}
	return milestones
}

// Snapshot summarises all logs. TotalWorkouts counts distinct days with a completed workout.
func Snapshot(
	workouts []fitness.WorkoutLog,
	nutrition []fitness.NutritionLog,
	plannedPerWeek int,
	now time.Time,
) fitness.ProgressSnapshot {
	calories := 0
	for _, log := range nutrition {
		calories += log.Calories
	}
	return fitness.ProgressSnapshot{
		StreakDays:           Streak(workouts, now),
		TotalWorkouts:        len(completedDates(workouts)),
		TotalCaloriesTracked: calories,
		Milestones:           Milestones(workouts, nutrition, now),
		WeeklyCompletionRate: WeeklyCompletion(workouts, plannedPerWeek),
	}
}

// Summary restricts the logs to the Monday-start week containing now.
func Summary(
	workouts []fitness.WorkoutLog,
	nutrition []fitness.NutritionLog,
	plannedPerWeek int,
	now time.Time,
) fitness.WeeklySummary {
	weekStart := fitness.FormatDate(fitness.StartOfWeek(now))

	var weekWorkouts []fitness.WorkoutLog
	for _, log := range workouts {
		if log.Date >= weekStart {
			weekWorkouts = append(weekWorkouts, log)
		}
	}
	calories, meals := 0, 0
	for _, log := range nutrition {
		if log.Date >= weekStart {
			calories += log.Calories
			meals++
		}
	}
	avg := 0
	if meals > 0 {
		avg = int(math.Round(float64(calories) / float64(meals)))
	}

	return fitness.WeeklySummary{
		WeekStart:         weekStart,
		WorkoutsCompleted: countCompleted(weekWorkouts),
		WorkoutsPlanned:   plannedPerWeek,
		AvgCalories:       avg,
		StreakDays:        len(completedDates(weekWorkouts)),
	}
}

// Trends buckets logs per calendar date and returns the most recent seven dates in ascending order.
func Trends(workouts []fitness.WorkoutLog, nutrition []fitness.NutritionLog) []fitness.TrendPoint {
	buckets := make(map[string]*fitness.TrendPoint)
	bucket := func(date string) *fitness.TrendPoint {
		b, ok := buckets[date]
		if !ok {
			b = &fitness.TrendPoint{Label: date, Workouts: 0, Calories: 0}
			buckets[date] = b
		}
		return b
	}
	for _, log := range workouts {
		b := bucket(log.Date)
		if log.Completed {
			b.Workouts++
		}
	}
	for _, log := range nutrition {
		bucket(log.Date).Calories += log.Calories
	}

	points := make([]fitness.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, *b)
	}
	slices.SortFunc(points, func(a, b fitness.TrendPoint) int { return cmp.Compare(a.Label, b.Label) })
	return points[max(0, len(points)-trendBuckets):]
}

// Engagement derives activity ratios from the distinct dates of all workout logs.
func Engagement(workouts []fitness.WorkoutLog, motivationInteractions int) fitness.EngagementMetrics {
	active := make(map[string]struct{})
	minutes, sessions := 0, 0
	for _, log := range workouts {
		active[log.Date] = struct{}{}
		if log.Completed {
			minutes += log.DurationMin
			sessions++
		}
	}
	activeDays := len(active)
	weeks := max(1, int(math.Ceil(float64(activeDays)/7))) //nolint:mnd // days per week.
	ratio := min(1, float64(activeDays)/float64(weeks*7))  //nolint:mnd // days per week.

	avgMinutes := 0
	if sessions > 0 {
		avgMinutes = int(math.Round(float64(minutes) / float64(sessions)))
	}

	return fitness.EngagementMetrics{
		DauWauRatio:            math.Round(ratio*100) / 100, //nolint:mnd // two decimals.
		AverageSessionMinutes:  avgMinutes,
		MotivationInteractions: motivationInteractions,
		Retention30d:           min(100, activeDays*4), //nolint:mnd // simplistic proxy.
	}
}
