package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/library"
)

type exerciseDetail struct {
	fitness.WorkoutExercise

	DescriptionHTML string `json:"descriptionHtml"`
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.library.Exercises())
}

// exerciseGET returns one library exercise with its markdown description rendered to HTML.
func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	exercise, ok := app.library.Exercise(id)
	if !ok {
		app.notFound(w, r, "No exercise found with this id.")
		return
	}
	html, err := library.RenderDescription(exercise.Description)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("render description of %s: %w", id, err))
		return
	}
	app.writeJSON(w, r, http.StatusOK, exerciseDetail{WorkoutExercise: exercise, DescriptionHTML: html})
}

func (app *application) mealsGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.library.Meals())
}
