package weeklyplan

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
)

const (
	schemaName         = "weekly_workout_plan"
	maxExercisesPerDay = 6
	minExercisesPerDay = 1
)

// planJSONSchema is the strict structured output schema of a plan with exactly days days.
type planJSONSchema struct {
	days int
}

func (s planJSONSchema) MarshalJSON() ([]byte, error) {
	nullableNumber := map[string]any{"type": []string{"number", "null"}, "minimum": 1}
	exercise := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"name", "type", "sets", "reps", "seconds"},
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"type":    map[string]any{"type": "string", "enum": []fitness.PrescriptionType{fitness.PrescriptionReps, fitness.PrescriptionTime}},
			"sets":    map[string]any{"type": "number", "minimum": 1},
			"reps":    nullableNumber,
			"seconds": nullableNumber,
		},
	}
	day := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"day", "dayType", "focus", "exercises"},
		"properties": map[string]any{
			"day": map[string]any{"type": "string"},
			"dayType": map[string]any{"type": "string", "enum": []fitness.DayType{
				fitness.DayTypeTraining, fitness.DayTypeConditioning, fitness.DayTypeRecovery, fitness.DayTypeRest,
			}},
			"focus": map[string]any{"type": "string"},
			"exercises": map[string]any{
				"type":     "array",
				"minItems": minExercisesPerDay,
				"maxItems": maxExercisesPerDay,
				"items":    exercise,
			},
		},
	}
	data, err := json.Marshal(map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"days"},
		"properties": map[string]any{
			"days": map[string]any{
				"type":     "array",
				"minItems": s.days,
				"maxItems": s.days,
				"items":    day,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal plan schema: %w", err)
	}
	return data, nil
}

// SystemPrompt instructs the model. The exercise count per day type cannot be expressed in the schema so it is
// stated here.
func SystemPrompt(days int) string {
	return fmt.Sprintf("You are a workout planning coach. Return strict JSON only that matches the schema exactly, "+
		"with no markdown or extra text. Build exactly %d days. "+
		"Each day must include dayType: 'training' | 'conditioning' | 'recovery' | 'rest'. "+
		"Enforce exercise counts by dayType: training days must have 4-6 exercises with a balanced mix appropriate "+
		"to the focus (for example strength, hypertrophy, mobility, core, conditioning as applicable), "+
		"conditioning days must have 3-5 movements and include a mix of time-based and rep-based work, "+
		"and recovery/rest days must have 1-2 items maximum. "+
		"For each exercise include name, type ('reps' or 'time'), sets, reps, and seconds. "+
		"Use null for reps when type is 'time', and null for seconds when type is 'reps'.", days)
}

// ParsePlan decodes model output and checks that it has exactly days days.
func ParsePlan(content string, days int) (Plan, error) {
	if content == "" {
		return Plan{}, ErrEmptyCompletion
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return Plan{}, errors.Wrap(ErrInvalidJSON, err.Error())
	}
	var p Plan
	if err := json.Unmarshal(root["days"], &p.Days); err != nil || p.Days == nil {
		return Plan{}, errors.Wrap(ErrDayCountMismatch, "days is not an array of day objects")
	}
	if len(p.Days) != days {
		return Plan{}, errors.Wrap(ErrDayCountMismatch, "wrong number of days",
			slog.Int("want", days), slog.Int("got", len(p.Days)))
	}
	return p, nil
}

// PolicyViolation describes a day whose exercise count does not fit its day type.
type PolicyViolation struct {
	Day       string
	DayType   fitness.DayType
	Exercises int
	Min, Max  int
}

func (v PolicyViolation) String() string {
	return fmt.Sprintf("%s (%s) has %d exercises, want %d-%d", v.Day, v.DayType, v.Exercises, v.Min, v.Max)
}

// exerciseBounds are the exercise counts the system prompt asks for.
//
//nolint:gochecknoglobals // static table.
var exerciseBounds = map[fitness.DayType][2]int{
	fitness.DayTypeTraining:     {4, 6}, //nolint:mnd // policy.
	fitness.DayTypeConditioning: {3, 5}, //nolint:mnd // policy.
	fitness.DayTypeRecovery:     {1, 2}, //nolint:mnd // policy.
	fitness.DayTypeRest:         {1, 2}, //nolint:mnd // policy.
}

// CheckPolicy lists the days that break the exercise count policy. Days with an unknown type are skipped.
func CheckPolicy(p Plan) []PolicyViolation {
	var violations []PolicyViolation
	for _, d := range p.Days {
		bounds, ok := exerciseBounds[d.DayType]
		if !ok {
			continue
		}
		if n := len(d.Exercises); n < bounds[0] || n > bounds[1] {
			violations = append(violations, PolicyViolation{
				Day: d.Day, DayType: d.DayType, Exercises: n, Min: bounds[0], Max: bounds[1],
			})
		}
	}
	return violations
}
