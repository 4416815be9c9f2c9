package main

import (
	"net/http"

	"github.com/myrjola/fitcoach/internal/profile"
)

type onboardingRequest struct {
	profile.OnboardingInput

	Email string `json:"email"`
}

func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.profiles.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}

// profilePUT completes onboarding with the questionnaire answers in the body.
func (app *application) profilePUT(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	p, err := app.profiles.CompleteOnboarding(r.Context(), r.PathValue("userId"), req.Email, req.OnboardingInput)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}

func (app *application) preferencesPATCH(w http.ResponseWriter, r *http.Request) {
	var upd profile.PreferencesUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		app.handleError(w, r, err)
		return
	}
	p, err := app.profiles.UpdatePreferences(r.Context(), r.PathValue("userId"), upd)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}
