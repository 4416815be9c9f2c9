package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/planclient"
	"github.com/myrjola/fitcoach/internal/progress"
)

type reminderSendResponse struct {
	MotivationInteractions int `json:"motivationInteractions"`
}

func (app *application) workoutLogPOST(w http.ResponseWriter, r *http.Request) {
	var req planclient.WorkoutLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	result, err := app.progress.AddWorkoutLog(r.Context(), r.PathValue("userId"), req.ExerciseIDs, req.DurationMin)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, result)
}

func (app *application) nutritionLogPOST(w http.ResponseWriter, r *http.Request) {
	var req planclient.NutritionLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	for _, id := range req.MealIDs {
		if _, ok := app.library.Meal(id); !ok {
			app.handleError(w, r, errors.Wrap(progress.ErrInvalidInput, "unknown meal", slog.String("meal_id", id)))
			return
		}
	}
	log, err := app.progress.AddNutritionLog(r.Context(), r.PathValue("userId"), req.MealIDs, req.Calories)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, log)
}

// reminderSendPOST counts a reminder delivered to the user.
func (app *application) reminderSendPOST(w http.ResponseWriter, r *http.Request) {
	count, err := app.progress.RecordMotivationInteraction(r.Context(), r.PathValue("userId"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, reminderSendResponse{MotivationInteractions: count})
}

// progressGET reports the analytics of the user. Reminders are installed on first read. Without plannedPerWeek the
// default weekly target applies; an explicit 0 reports a completion rate of 0.
func (app *application) progressGET(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	planned := progress.DefaultPlannedPerWeek
	if value := r.URL.Query().Get("plannedPerWeek"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			app.handleError(w, r, errors.Wrap(progress.ErrInvalidInput, "plannedPerWeek must be an integer",
				slog.String("planned_per_week", value)))
			return
		}
		if n < 0 {
			app.handleError(w, r, errors.Wrap(progress.ErrInvalidInput, "plannedPerWeek must not be negative",
				slog.Int("planned_per_week", n)))
			return
		}
		planned = n
	}
	if _, err := app.progress.HydrateReminders(r.Context(), userID); err != nil {
		app.handleError(w, r, err)
		return
	}
	report, err := app.progress.Report(r.Context(), userID, planned)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, report)
}
