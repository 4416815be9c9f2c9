// Package library provides the static reference exercise and meal tables that plans are built from.
package library

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/yuin/goldmark"
)

// Library is a read-only lookup over exercise and meal templates.
type Library struct {
	exercises     []fitness.WorkoutExercise
	meals         []fitness.NutritionMeal
	exerciseByID  map[string]int
	exerciseByKey map[string]int
	mealByID      map[string]int
}

// New indexes the given templates. Later duplicates of an id or name are ignored.
func New(exercises []fitness.WorkoutExercise, meals []fitness.NutritionMeal) *Library {
	l := &Library{
		exercises:     exercises,
		meals:         meals,
		exerciseByID:  make(map[string]int, len(exercises)),
		exerciseByKey: make(map[string]int, len(exercises)),
		mealByID:      make(map[string]int, len(meals)),
	}
	for i, e := range exercises {
		if _, ok := l.exerciseByID[e.ID]; !ok {
			l.exerciseByID[e.ID] = i
		}
		key := nameKey(e.Name)
		if _, ok := l.exerciseByKey[key]; !ok {
			l.exerciseByKey[key] = i
		}
	}
	for i, m := range meals {
		if _, ok := l.mealByID[m.ID]; !ok {
			l.mealByID[m.ID] = i
		}
	}
	return l
}

// Default returns the built-in library.
func Default() *Library {
	return New(defaultExercises(), defaultMeals())
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Exercises returns copies of all exercise templates in library order.
func (l *Library) Exercises() []fitness.WorkoutExercise {
	out := make([]fitness.WorkoutExercise, len(l.exercises))
	for i, e := range l.exercises {
		out[i] = cloneExercise(e)
	}
	return out
}

// Meals returns copies of all meal templates in library order.
func (l *Library) Meals() []fitness.NutritionMeal {
	out := make([]fitness.NutritionMeal, len(l.meals))
	for i, m := range l.meals {
		out[i] = cloneMeal(m)
	}
	return out
}

// Exercise looks up an exercise template by id.
func (l *Library) Exercise(id string) (fitness.WorkoutExercise, bool) {
	i, ok := l.exerciseByID[id]
	if !ok {
		return fitness.WorkoutExercise{}, false
	}
	return cloneExercise(l.exercises[i]), true
}

// ExerciseByName matches name case-insensitively and exactly, ignoring surrounding whitespace.
func (l *Library) ExerciseByName(name string) (fitness.WorkoutExercise, bool) {
	i, ok := l.exerciseByKey[nameKey(name)]
	if !ok {
		return fitness.WorkoutExercise{}, false
	}
	return cloneExercise(l.exercises[i]), true
}

// Meal looks up a meal template by id.
func (l *Library) Meal(id string) (fitness.NutritionMeal, bool) {
	i, ok := l.mealByID[id]
	if !ok {
		return fitness.NutritionMeal{}, false
	}
	return cloneMeal(l.meals[i]), true
}

// DefaultPrescription returns the template prescription of the exercise with the given id.
func (l *Library) DefaultPrescription(id string) (fitness.Prescription, bool) {
	i, ok := l.exerciseByID[id]
	if !ok {
		return fitness.Prescription{}, false
	}
	return l.exercises[i].Prescription.Clone(), true
}

// RenderDescription converts a markdown exercise description to HTML.
func RenderDescription(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func cloneExercise(e fitness.WorkoutExercise) fitness.WorkoutExercise {
	c := e
	c.TargetMuscles = append([]string(nil), e.TargetMuscles...)
	c.Equipment = append([]string(nil), e.Equipment...)
	c.Prescription = e.Prescription.Clone()
	return c
}

func cloneMeal(m fitness.NutritionMeal) fitness.NutritionMeal {
	c := m
	c.Tags = append([]string(nil), m.Tags...)
	return c
}
