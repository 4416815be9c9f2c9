package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

// weeklyPlanGeneratePOST generates a plan with the language model and stores it. A missing API key is reported
// before the request is validated.
func (app *application) weeklyPlanGeneratePOST(w http.ResponseWriter, r *http.Request) {
	if !app.weeklyPlans.Configured() {
		app.handleError(w, r, weeklyplan.ErrProviderNotConfigured)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	req, err := weeklyplan.ParseRequest(body)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	ctx := logging.WithAttrs(r.Context(), slog.String("user_id", req.UserID), slog.Int("days", req.Days))
	result, err := app.weeklyPlans.Generate(ctx, req)
	if err != nil {
		app.handleError(w, r.WithContext(ctx), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, result)
}

// weeklyPlanGET returns a stored plan addressed by the startDate and days query parameters.
func (app *application) weeklyPlanGET(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	query := r.URL.Query()
	days, err := weeklyplan.ParseDays(query.Get("days"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var startDate *string
	if value := query.Get("startDate"); value != "" {
		if err = weeklyplan.ValidateStartDate(value); err != nil {
			app.handleError(w, r, err)
			return
		}
		startDate = &value
	}
	doc, err := app.weeklyPlans.Get(r.Context(), userID, startDate, days)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, doc)
}
