package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.withCORS(secureHeaders(next)))
		}
		api = func(next http.HandlerFunc) http.Handler {
			return shared(app.timeout(next))
		}
		generation = func(next http.HandlerFunc) http.Handler {
			return shared(app.generationTimeoutFor(next))
		}
	)

	mux.Handle("POST /generate-weekly-plan", generation(app.weeklyPlanGeneratePOST))
	mux.Handle("GET /weekly-plan/{userId}", api(app.weeklyPlanGET))

	mux.Handle("GET /exercises", api(app.exercisesGET))
	mux.Handle("GET /exercises/{id}", api(app.exerciseGET))
	mux.Handle("GET /meals", api(app.mealsGET))

	mux.Handle("GET /users/{userId}/profile", api(app.profileGET))
	mux.Handle("PUT /users/{userId}/profile", api(app.profilePUT))
	mux.Handle("PATCH /users/{userId}/preferences", api(app.preferencesPATCH))

	mux.Handle("POST /users/{userId}/plan", api(app.planPOST))
	mux.Handle("GET /users/{userId}/plan", api(app.planGET))
	mux.Handle("PUT /users/{userId}/plan", api(app.planPUT))
	mux.Handle("DELETE /users/{userId}/plan", api(app.planDELETE))

	mux.Handle("POST /users/{userId}/workout-logs", api(app.workoutLogPOST))
	mux.Handle("POST /users/{userId}/nutrition-logs", api(app.nutritionLogPOST))
	mux.Handle("POST /users/{userId}/reminders/send", api(app.reminderSendPOST))
	mux.Handle("GET /users/{userId}/progress", api(app.progressGET))

	mux.Handle("GET /api/healthy", api(app.healthy))

	// Preflight requests match no method pattern above.
	mux.Handle("OPTIONS /", shared(http.NotFoundHandler()))
	mux.Handle("/", api(func(w http.ResponseWriter, r *http.Request) {
		app.notFound(w, r, "Not found.")
	}))

	return app.logAndTraceRequest(mux)
}
