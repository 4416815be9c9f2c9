// Package plan repairs plans of uncertain integrity and derives rule-based weekly plans from a profile.
package plan

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/ptr"
)

// ErrCorruptPlan is returned by NormalizeJSON when the input is not a JSON object.
var ErrCorruptPlan = errors.New("stored plan is not a JSON object")

// PrescriptionLookup provides the reference prescription of a library exercise.
type PrescriptionLookup interface {
	DefaultPrescription(exerciseID string) (fitness.Prescription, bool)
}

// Normalize returns a copy of p in which every exercise carries a valid prescription. Malformed prescriptions are
// replaced with the library default for the exercise id, or with [fitness.FallbackPrescription]. Nil sequences
// become empty. Normalize is idempotent.
func Normalize(p fitness.GeneratedPlan, lookup PrescriptionLookup) fitness.GeneratedPlan {
	out := p
	out.WeeklyPlan = make([]fitness.DailyPlan, len(p.WeeklyPlan))
	for i, day := range p.WeeklyPlan {
		d := day
		d.Workout = make([]fitness.WorkoutExercise, len(day.Workout))
		for j, exercise := range day.Workout {
			d.Workout[j] = ensurePrescription(exercise, lookup)
		}
		d.Meals = append(make([]fitness.NutritionMeal, 0, len(day.Meals)), day.Meals...)
		out.WeeklyPlan[i] = d
	}
	return out
}

func ensurePrescription(exercise fitness.WorkoutExercise, lookup PrescriptionLookup) fitness.WorkoutExercise {
	if p, ok := wellFormed(exercise.Prescription); ok {
		exercise.Prescription = p
		return exercise
	}
	exercise.Prescription = fitness.FallbackPrescription()
	if lookup != nil {
		if p, ok := lookup.DefaultPrescription(exercise.ID); ok && p.Valid() {
			exercise.Prescription = p.Clone()
		}
	}
	return exercise
}

// wellFormed keeps a prescription whose declared variant carries usable numbers. A stray value for the other
// variant is dropped rather than failing the whole prescription.
func wellFormed(p fitness.Prescription) (fitness.Prescription, bool) {
	if p.Sets < 1 {
		return fitness.Prescription{}, false
	}
	switch p.Type {
	case fitness.PrescriptionReps:
		if p.Reps != nil && *p.Reps >= 1 {
			return fitness.RepsPrescription(p.Sets, *p.Reps), true
		}
	case fitness.PrescriptionTime:
		if p.Seconds != nil && *p.Seconds >= 1 {
			return fitness.TimePrescription(p.Sets, *p.Seconds), true
		}
	}
	return fitness.Prescription{}, false
}

// NormalizeJSON leniently decodes a stored or externally produced plan and normalizes it. Fields of the wrong
// JSON type decode as their zero value, non-array weeklyPlan/workout/meals become empty, and non-object entries
// are dropped. Only a document that is not a JSON object at all fails with ErrCorruptPlan.
func NormalizeJSON(data []byte, lookup PrescriptionLookup) (fitness.GeneratedPlan, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return fitness.GeneratedPlan{}, ErrCorruptPlan
	}

	p := fitness.GeneratedPlan{
		ID:         field[string](root, "id"),
		UserID:     field[string](root, "userId"),
		CreatedAt:  field[time.Time](root, "createdAt"),
		WeeklyPlan: nil,
	}
	for _, dayObj := range objects(root["weeklyPlan"]) {
		day := fitness.DailyPlan{
			Day:     field[string](dayObj, "day"),
			DayType: fitness.DayType(field[string](dayObj, "dayType")),
			Focus:   field[string](dayObj, "focus"),
			Workout: nil,
			Meals:   nil,
			Notes:   field[string](dayObj, "notes"),
		}
		for _, exObj := range objects(dayObj["workout"]) {
			day.Workout = append(day.Workout, looseExercise(exObj))
		}
		for _, mealRaw := range rawElements(dayObj["meals"]) {
			var meal fitness.NutritionMeal
			if err := json.Unmarshal(mealRaw, &meal); err == nil {
				day.Meals = append(day.Meals, meal)
			}
		}
		p.WeeklyPlan = append(p.WeeklyPlan, day)
	}

	return Normalize(p, lookup), nil
}

func looseExercise(obj map[string]json.RawMessage) fitness.WorkoutExercise {
	return fitness.WorkoutExercise{
		ID:            field[string](obj, "id"),
		Name:          field[string](obj, "name"),
		Description:   field[string](obj, "description"),
		TargetMuscles: field[[]string](obj, "targetMuscles"),
		Equipment:     field[[]string](obj, "equipment"),
		Prescription:  loosePrescription(obj["prescription"]),
		Intensity:     fitness.Intensity(field[string](obj, "intensity")),
		ImageURL:      field[string](obj, "imageUrl"),
	}
}

// loosePrescription reads the variant fields that are JSON numbers. Anything else is left unset so that
// Normalize repairs it.
func loosePrescription(raw json.RawMessage) fitness.Prescription {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fitness.Prescription{}
	}
	return fitness.Prescription{
		Type:    fitness.PrescriptionType(field[string](obj, "type")),
		Sets:    ptr.Deref(number(obj, "sets"), 0),
		Reps:    number(obj, "reps"),
		Seconds: number(obj, "seconds"),
	}
}

func number(obj map[string]json.RawMessage, key string) *int {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// Counts are clamped to the int32 range.
	return ptr.Ref(int(max(math.MinInt32, min(math.Round(f), math.MaxInt32))))
}

func field[T any](obj map[string]json.RawMessage, key string) T {
	var v T
	raw, ok := obj[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

func rawElements(raw json.RawMessage) []json.RawMessage {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}

func objects(raw json.RawMessage) []map[string]json.RawMessage {
	var out []map[string]json.RawMessage
	for _, elem := range rawElements(raw) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err == nil && obj != nil {
			out = append(out, obj)
		}
	}
	return out
}
