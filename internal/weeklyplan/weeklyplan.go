// Package weeklyplan generates weekly workout plans with a language model and stores them per user and plan id.
package weeklyplan

import (
	"context"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
)

// Validation errors. Their messages are returned to API clients as is.
var (
	ErrInvalidUserID    = errors.NewSentinel("userId is required and must be a string.")
	ErrInvalidDays      = errors.NewSentinel("days must be a positive integer.")
	ErrInvalidStartDate = errors.NewSentinel("startDate must be in YYYY-MM-DD format.")
)

// Generation errors.
var (
	ErrProviderNotConfigured = errors.NewSentinel("OPENAI_API_KEY is not configured.")
	ErrProviderFailed        = errors.NewSentinel("OpenAI request failed.")
	ErrEmptyCompletion       = errors.NewSentinel("OpenAI returned an empty response.")
	ErrInvalidJSON           = errors.NewSentinel("OpenAI response was not valid JSON.")
	ErrDayCountMismatch      = errors.NewSentinel("OpenAI response failed plan validation.")
)

// ErrNotFound is returned when no plan is stored under the requested key.
var ErrNotFound = errors.NewSentinel("No weekly plan found for this user.")

// DefaultDays is the plan length when the request does not specify one.
const DefaultDays = 7

// Exercise is one model-proposed exercise. Exactly one of Reps and Seconds is expected to be set according to
// Type but the model output is not trusted to honour it.
type Exercise struct {
	Name    string                   `json:"name"    firestore:"name"`
	Type    fitness.PrescriptionType `json:"type"    firestore:"type"`
	Sets    float64                  `json:"sets"    firestore:"sets"`
	Reps    *float64                 `json:"reps"    firestore:"reps"`
	Seconds *float64                 `json:"seconds" firestore:"seconds"`
}

// Day is one day of a model-proposed plan.
type Day struct {
	Day       string          `json:"day"       firestore:"day"`
	DayType   fitness.DayType `json:"dayType"   firestore:"dayType"`
	Focus     string          `json:"focus"     firestore:"focus"`
	Exercises []Exercise      `json:"exercises" firestore:"exercises"`
}

// Plan is the structured output of the model.
type Plan struct {
	Days []Day `json:"days" firestore:"days"`
}

// Inputs are the user context the plan was generated from. The values are opaque JSON passed through to the
// model and stored verbatim.
type Inputs struct {
	SavedWorkouts any `json:"savedWorkouts" firestore:"savedWorkouts"`
	Goals         any `json:"goals"         firestore:"goals"`
	Preferences   any `json:"preferences"   firestore:"preferences"`
}

// Document is a stored plan, addressed by (UserID, PlanID).
type Document struct {
	Week      string    `json:"week"      firestore:"week"`
	PlanID    string    `json:"planId"    firestore:"planId"`
	UserID    string    `json:"userId"    firestore:"userId"`
	StartDate *string   `json:"startDate" firestore:"startDate"`
	Days      int       `json:"days"      firestore:"days"`
	Plan      Plan      `json:"plan"      firestore:"plan"`
	Inputs    Inputs    `json:"inputs"    firestore:"inputs"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Result is returned to the caller of a generation.
type Result struct {
	Week      string  `json:"week"`
	PlanID    string  `json:"planId"`
	StartDate *string `json:"startDate"`
	Days      int     `json:"days"`
	Plan      Plan    `json:"plan"`
}

// Generator produces a plan of exactly in.Days days.
type Generator interface {
	Generate(ctx context.Context, in GenerationInput) (Plan, error)
}

// GenerationInput is what the model sees.
type GenerationInput struct {
	Inputs

	Days int
}

// Store persists plan documents. Get returns ErrNotFound for a missing key.
type Store interface {
	Save(ctx context.Context, doc Document) error
	Get(ctx context.Context, userID, planID string) (Document, error)
}
