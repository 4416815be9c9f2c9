package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcoach/internal/fitness"
)

const noPlanMessage = "No plan found for this user."

// planPOST replaces the held plan with a rule-based plan derived from the stored profile.
func (app *application) planPOST(w http.ResponseWriter, r *http.Request) {
	p, err := app.profiles.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	generated, err := app.plans.GenerateFallback(r.Context(), p)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("generate fallback plan: %w", err))
		return
	}
	app.writeJSON(w, r, http.StatusCreated, generated)
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.plans.Load(r.Context(), r.PathValue("userId"))
	if err != nil {
		app.serverError(w, r, fmt.Errorf("load plan: %w", err))
		return
	}
	if p == nil {
		app.notFound(w, r, noPlanMessage)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}

// planPUT stores a plan converted by the client. The user of the path owns the plan regardless of the body.
func (app *application) planPUT(w http.ResponseWriter, r *http.Request) {
	var p fitness.GeneratedPlan
	if err := decodeJSON(w, r, &p); err != nil {
		app.handleError(w, r, err)
		return
	}
	p.UserID = r.PathValue("userId")
	saved, err := app.plans.Save(r.Context(), p)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("save plan: %w", err))
		return
	}
	app.writeJSON(w, r, http.StatusOK, saved)
}

func (app *application) planDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.plans.Clear(r.Context(), r.PathValue("userId")); err != nil {
		app.serverError(w, r, fmt.Errorf("clear plan: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
