package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/profile"
	"github.com/myrjola/fitcoach/internal/progress"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.NewSentinel("request body must be a JSON object")

// Errors whose message is shown to the client as is.
var (
	weeklyPlanBadRequests = []error{
		weeklyplan.ErrInvalidUserID,
		weeklyplan.ErrInvalidDays,
		weeklyplan.ErrInvalidStartDate,
	}
	weeklyPlanFailures = []error{
		weeklyplan.ErrProviderNotConfigured,
		weeklyplan.ErrEmptyCompletion,
		weeklyplan.ErrInvalidJSON,
		weeklyplan.ErrDayCountMismatch,
		weeklyplan.ErrProviderFailed,
	}
)

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write response", errors.SlogError(err))
	}
}

// readBody reads the request body, refusing bodies larger than maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errInvalidBody, err.Error())
	}
	return body, nil
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errInvalidBody, err.Error())
	}
	return nil
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request, message string) {
	app.clientError(w, r, http.StatusNotFound, message)
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

// handleError maps err to a response. Validation failures are 400, missing documents 404 and everything else
// 500. Generation failures keep their message so that clients can show it.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	for _, sentinel := range weeklyPlanBadRequests {
		if errors.Is(err, sentinel) {
			app.clientError(w, r, http.StatusBadRequest, sentinel.Error())
			return
		}
	}
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, profile.ErrInvalidInput),
		errors.Is(err, progress.ErrInvalidInput):
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, weeklyplan.ErrNotFound):
		app.notFound(w, r, weeklyplan.ErrNotFound.Error())
		return
	case errors.Is(err, profile.ErrNotFound):
		app.notFound(w, r, "No profile found for this user.")
		return
	}
	for _, sentinel := range weeklyPlanFailures {
		if errors.Is(err, sentinel) {
			app.logger.LogAttrs(r.Context(), slog.LevelError, "weekly plan generation failed", errors.SlogError(err))
			app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: sentinel.Error()})
			return
		}
	}
	app.serverError(w, r, err)
}
