// Package motivation derives badges from progress and provides the default reminder set.
package motivation

import (
	"time"

	"github.com/myrjola/fitcoach/internal/fitness"
)

type badgeRule struct {
	badge  fitness.Badge
	earned func(streakDays, totalWorkouts int) bool
}

//nolint:gochecknoglobals // static rule table.
var badgeRules = []badgeRule{
	{
		badge: fitness.Badge{
			ID: "b-streak-3", Title: "Momentum Builder", Description: "3-day activity streak achieved.",
			EarnedAt: time.Time{},
		},
		earned: func(streakDays, _ int) bool { return streakDays >= 3 }, //nolint:mnd // threshold.
	},
	{
		badge: fitness.Badge{
			ID: "b-workout-10", Title: "Consistent Athlete", Description: "10 completed workouts logged.",
			EarnedAt: time.Time{},
		},
		earned: func(_, totalWorkouts int) bool { return totalWorkouts >= 10 }, //nolint:mnd // threshold.
	},
	{
		badge: fitness.Badge{
			ID: "b-workout-20", Title: "Elite Discipline", Description: "20 workouts completed. Keep the pace.",
			EarnedAt: time.Time{},
		},
		earned: func(_, totalWorkouts int) bool { return totalWorkouts >= 20 }, //nolint:mnd // threshold.
	},
}

// BuildBadges returns every badge earned at the given streak and workout count, stamped with now. Badges are
// recomputed wholesale so a broken streak removes its badge.
func BuildBadges(streakDays, totalWorkouts int, now time.Time) []fitness.Badge {
	badges := []fitness.Badge{}
	for _, rule := range badgeRules {
		if rule.earned(streakDays, totalWorkouts) {
			b := rule.badge
			b.EarnedAt = now
			badges = append(badges, b)
		}
	}
	return badges
}

// DefaultReminders are installed for users that have no reminders yet.
func DefaultReminders() []fitness.Reminder {
	return []fitness.Reminder{
		{
			ID:       "r-workout",
			Title:    "Workout Block",
			Message:  "Your training block starts in 30 minutes.",
			Schedule: "18:00",
			Enabled:  true,
		},
		{
			ID:       "r-meal",
			Title:    "Meal Prep",
			Message:  "Prepare your next recovery meal.",
			Schedule: "12:30",
			Enabled:  true,
		},
	}
}
