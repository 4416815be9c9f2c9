package planclient

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/library"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

const placeholderDescription = "Suggested by your coach. Follow the prescribed sets and keep good form."

// ExerciseLookup finds library exercises by name.
type ExerciseLookup interface {
	plan.PrescriptionLookup
	ExerciseByName(name string) (fitness.WorkoutExercise, bool)
}

// Converter turns generated workout plans into plans a user follows.
type Converter struct {
	exercises ExerciseLookup
	now       func() time.Time
	newID     func() string
}

func NewConverter(exercises ExerciseLookup) *Converter {
	return &Converter{
		exercises: exercises,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ToGeneratedPlan converts a generated plan for userID. Exercises named like a library exercise take its
// metadata, other names become placeholder exercises. Meals are not generated so they are carried over from
// current, by day label and then by position.
func (c *Converter) ToGeneratedPlan(userID string, generated weeklyplan.Plan, current *fitness.GeneratedPlan) fitness.GeneratedPlan {
	mealsByLabel := map[string][]fitness.NutritionMeal{}
	var mealsByIndex [][]fitness.NutritionMeal
	if current != nil {
		for _, day := range current.WeeklyPlan {
			if _, ok := mealsByLabel[day.Day]; !ok {
				mealsByLabel[day.Day] = day.Meals
			}
			mealsByIndex = append(mealsByIndex, day.Meals)
		}
	}

	days := make([]fitness.DailyPlan, 0, len(generated.Days))
	for i, day := range generated.Days {
		meals, ok := mealsByLabel[day.Day]
		if !ok && i < len(mealsByIndex) {
			meals = mealsByIndex[i]
		}
		workout := make([]fitness.WorkoutExercise, 0, len(day.Exercises))
		for _, e := range day.Exercises {
			workout = append(workout, c.exercise(e))
		}
		days = append(days, fitness.DailyPlan{
			Day:     day.Day,
			DayType: day.DayType,
			Focus:   day.Focus,
			Workout: workout,
			Meals:   cloneMeals(meals),
			Notes:   day.Focus,
		})
	}

	return plan.Normalize(fitness.GeneratedPlan{
		ID:         "ai-" + c.newID(),
		UserID:     userID,
		CreatedAt:  c.now(),
		WeeklyPlan: days,
	}, c.exercises)
}

func (c *Converter) exercise(e weeklyplan.Exercise) fitness.WorkoutExercise {
	if match, ok := c.exercises.ExerciseByName(e.Name); ok {
		match.Prescription = prescription(e)
		return match
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = "Exercise"
	}
	return fitness.WorkoutExercise{
		ID:            "ex-" + c.newID(),
		Name:          name,
		Description:   placeholderDescription,
		TargetMuscles: []string{},
		Equipment:     []string{library.EquipmentNone},
		Prescription:  prescription(e),
		Intensity:     fitness.IntensityMedium,
		ImageURL:      "",
	}
}

// prescription rebuilds the dosage from the generated fields, rounding and clamping counts to at least 1.
func prescription(e weeklyplan.Exercise) fitness.Prescription {
	sets := atLeastOne(ptr.Ref(e.Sets))
	if e.Type == fitness.PrescriptionTime {
		return fitness.TimePrescription(sets, atLeastOne(e.Seconds))
	}
	return fitness.RepsPrescription(sets, atLeastOne(e.Reps))
}

func atLeastOne(v *float64) int {
	f := ptr.Deref(v, 1)
	if math.IsNaN(f) {
		return 1
	}
	return int(max(1, min(math.Round(f), math.MaxInt32)))
}

func cloneMeals(meals []fitness.NutritionMeal) []fitness.NutritionMeal {
	out := make([]fitness.NutritionMeal, 0, len(meals))
	for _, m := range meals {
		m.Tags = append([]string(nil), m.Tags...)
		out = append(out, m)
	}
	return out
}
