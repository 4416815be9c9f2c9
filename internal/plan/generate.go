package plan

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/library"
)

const (
	exercisesPerDay = 2
	mealsPerDay     = 3

	trainingDayNotes = "Primary training day. Focus on consistency and recovery hydration."
	recoveryDayNotes = "Active recovery day. Prioritize mobility, walking, and sleep quality."
)

// Catalog is the static exercise and meal data the generator draws from.
type Catalog interface {
	PrescriptionLookup
	Exercises() []fitness.WorkoutExercise
	Meals() []fitness.NutritionMeal
}

// Generator derives a weekly plan from a profile without randomness: the same profile and catalog always
// produce the same days.
type Generator struct {
	catalog Catalog
	now     func() time.Time
	newID   func() string
}

// NewGenerator creates a generator stamping plans with time.Now and random ids.
func NewGenerator(catalog Catalog) *Generator {
	return &Generator{
		catalog: catalog,
		now:     time.Now,
		newID:   func() string { return "plan-" + uuid.NewString() },
	}
}

// intensityForGoal maps the primary goal to the preferred exercise intensity.
func intensityForGoal(goal fitness.Goal) fitness.Intensity {
	switch goal {
	case fitness.GoalFatLoss, fitness.GoalMuscleGain:
		return fitness.IntensityHigh
	case fitness.GoalEndurance:
		return fitness.IntensityMedium
	case fitness.GoalGeneralFitness:
		return fitness.IntensityLow
	}
	return fitness.IntensityLow
}

// Generate builds a seven-day plan for profile. Days with an index below ScheduleDays are training days,
// the rest are recovery days.
func (g *Generator) Generate(profile fitness.UserProfile) fitness.GeneratedPlan {
	exercises := g.exercisePool(profile)
	meals := g.mealPool(profile)

	labels := fitness.DayLabels()
	days := make([]fitness.DailyPlan, len(labels))
	for i, label := range labels {
		day := fitness.DailyPlan{
			Day:     label,
			DayType: fitness.DayTypeRecovery,
			Focus:   "",
			Workout: dayExercises(exercises, i),
			Meals:   window(meals, i, mealsPerDay),
			Notes:   recoveryDayNotes,
		}
		if i < profile.ScheduleDays {
			day.DayType = fitness.DayTypeTraining
			day.Notes = trainingDayNotes
		}
		days[i] = day
	}

	return Normalize(fitness.GeneratedPlan{
		ID:         g.newID(),
		UserID:     profile.UID,
		CreatedAt:  g.now(),
		WeeklyPlan: days,
	}, g.catalog)
}

// exercisePool keeps exercises matching the goal intensity, needing no equipment, or using owned equipment.
func (g *Generator) exercisePool(profile fitness.UserProfile) []fitness.WorkoutExercise {
	preferred := intensityForGoal(profile.PrimaryGoal())
	var pool []fitness.WorkoutExercise
	for _, exercise := range g.catalog.Exercises() {
		usable := slices.ContainsFunc(exercise.Equipment, func(item string) bool {
			return item == library.EquipmentNone || slices.Contains(profile.Equipment, item)
		})
		if exercise.Intensity == preferred || usable {
			pool = append(pool, exercise)
		}
	}
	return pool
}

// mealPool keeps meals tagged with any profile goal or with general fitness.
func (g *Generator) mealPool(profile fitness.UserProfile) []fitness.NutritionMeal {
	var pool []fitness.NutritionMeal
	for _, meal := range g.catalog.Meals() {
		matches := slices.ContainsFunc(meal.Tags, func(tag string) bool {
			return tag == string(fitness.GoalGeneralFitness) || slices.Contains(profile.Goals, fitness.Goal(tag))
		})
		if matches {
			pool = append(pool, meal)
		}
	}
	return pool
}

// dayExercises takes a wrapping window of two exercises and anchors the day with the first pool exercise
// unless the window already contains it.
func dayExercises(pool []fitness.WorkoutExercise, dayIndex int) []fitness.WorkoutExercise {
	picked := window(pool, dayIndex, exercisesPerDay)
	if len(pool) == 0 {
		return picked
	}
	anchor := pool[0]
	if !slices.ContainsFunc(picked, func(e fitness.WorkoutExercise) bool { return e.ID == anchor.ID }) {
		picked = append(picked, anchor)
	}
	return picked
}

// window returns up to size consecutive items starting at dayIndex modulo len(pool), wrapping around the end.
func window[T any](pool []T, dayIndex, size int) []T {
	n := len(pool)
	if n == 0 {
		return []T{}
	}
	size = min(size, n)
	start := dayIndex % n
	out := make([]T, 0, size)
	for k := range size {
		out = append(out, pool[(start+k)%n])
	}
	return out
}
