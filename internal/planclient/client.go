// Package planclient talks to the coaching API and turns generated plans into the plans a user follows.
package planclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/profile"
	"github.com/myrjola/fitcoach/internal/progress"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

// Messages used when the server does not explain a failure.
var (
	ErrGenerateFailed     = errors.NewSentinel("Unable to generate your weekly workout plan right now.")
	ErrFetchFailed        = errors.NewSentinel("Unable to load your weekly workout plan right now.")
	ErrInvalidGenerated   = errors.NewSentinel("AI service returned an invalid weekly plan format.")
	ErrInvalidFetched     = errors.NewSentinel("Weekly plan service returned an invalid format.")
	ErrUnexpectedResponse = errors.NewSentinel("unexpected response")
)

// ServerError carries the error message of a non-2xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client calls the coaching API at a base URL such as http://localhost:4000.
type Client struct {
	client *http.Client
	url    string
}

// New creates a client. A nil httpClient means http.DefaultClient.
func New(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{client: httpClient, url: url}
}

// URL returns the base URL.
func (c *Client) URL() string {
	return c.url
}

// WaitForReady calls urlPath until it responds with 200 OK, ctx is done or timeout has passed.
func (c *Client) WaitForReady(ctx context.Context, urlPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+urlPath, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		var resp *http.Response
		if resp, err = c.client.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Now().After(deadline) {
				return errors.New("timeout waiting for endpoint to be ready", slog.String("path", urlPath))
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// GenerateRequest is the body of a generation request. Empty optional fields are left to server defaults.
type GenerateRequest struct {
	UserID        string `json:"userId"`
	SavedWorkouts []any  `json:"savedWorkouts,omitempty"`
	Goals         any    `json:"goals,omitempty"`
	Preferences   any    `json:"preferences,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	Days          int    `json:"days,omitempty"`
}

// GeneratePlan asks the server to generate and store a plan. Server error messages are returned verbatim as
// *ServerError.
func (c *Client) GeneratePlan(ctx context.Context, in GenerateRequest) (weeklyplan.Result, error) {
	body, status, err := c.roundTrip(ctx, http.MethodPost, "/generate-weekly-plan", in)
	if err != nil {
		return weeklyplan.Result{}, errors.Wrap(ErrGenerateFailed, err.Error())
	}
	if status != http.StatusOK {
		return weeklyplan.Result{}, serverError(status, body, ErrGenerateFailed)
	}
	if !hasDaysArray(body) {
		return weeklyplan.Result{}, ErrInvalidGenerated
	}
	var result weeklyplan.Result
	if err = json.Unmarshal(body, &result); err != nil {
		return weeklyplan.Result{}, errors.Wrap(ErrInvalidGenerated, err.Error())
	}
	return result, nil
}

// FetchPlan reads a stored plan. A missing plan is reported as nil without an error.
func (c *Client) FetchPlan(ctx context.Context, userID, startDate string, days int) (*weeklyplan.Plan, error) {
	query := neturl.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if days == 0 {
		days = weeklyplan.DefaultDays
	}
	query.Set("days", strconv.Itoa(days))
	path := "/weekly-plan/" + neturl.PathEscape(userID) + "?" + query.Encode()

	body, status, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.Wrap(ErrFetchFailed, err.Error())
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil //nolint:nilnil // absence is not an error.
	case status != http.StatusOK:
		return nil, serverError(status, body, ErrFetchFailed)
	case !hasDaysArray(body):
		return nil, ErrInvalidFetched
	}
	var doc weeklyplan.Document
	if err = json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidFetched, err.Error())
	}
	return &doc.Plan, nil
}

// CompleteOnboarding stores the onboarding answers of userID.
func (c *Client) CompleteOnboarding(ctx context.Context, userID string, in profile.OnboardingInput) (fitness.UserProfile, error) {
	var out fitness.UserProfile
	err := c.doJSON(ctx, http.MethodPut, "/users/"+neturl.PathEscape(userID)+"/profile", in, &out)
	return out, err
}

// GenerateFallbackPlan builds a rule-based plan from the stored profile of userID.
func (c *Client) GenerateFallbackPlan(ctx context.Context, userID string) (fitness.GeneratedPlan, error) {
	var out fitness.GeneratedPlan
	err := c.doJSON(ctx, http.MethodPost, "/users/"+neturl.PathEscape(userID)+"/plan", nil, &out)
	return out, err
}

// LoadPlan returns the plan held for userID or nil when there is none.
func (c *Client) LoadPlan(ctx context.Context, userID string) (*fitness.GeneratedPlan, error) {
	var out fitness.GeneratedPlan
	err := c.doJSON(ctx, http.MethodGet, "/users/"+neturl.PathEscape(userID)+"/plan", nil, &out)
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
		return nil, nil //nolint:nilnil // absence is not an error.
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePlan replaces the plan held for p.UserID.
func (c *Client) SavePlan(ctx context.Context, p fitness.GeneratedPlan) (fitness.GeneratedPlan, error) {
	var out fitness.GeneratedPlan
	err := c.doJSON(ctx, http.MethodPut, "/users/"+neturl.PathEscape(p.UserID)+"/plan", p, &out)
	return out, err
}

// ClearPlan drops the plan held for userID.
func (c *Client) ClearPlan(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/"+neturl.PathEscape(userID)+"/plan", nil, nil)
}

// WorkoutLogRequest is the body of a workout log.
type WorkoutLogRequest struct {
	ExerciseIDs []string `json:"exerciseIds"`
	DurationMin int      `json:"durationMin"`
}

// LogWorkout records a completed workout for userID.
func (c *Client) LogWorkout(ctx context.Context, userID string, in WorkoutLogRequest) (progress.WorkoutResult, error) {
	var out progress.WorkoutResult
	err := c.doJSON(ctx, http.MethodPost, "/users/"+neturl.PathEscape(userID)+"/workout-logs", in, &out)
	return out, err
}

// NutritionLogRequest is the body of a nutrition log.
type NutritionLogRequest struct {
	MealIDs  []string `json:"mealIds"`
	Calories int      `json:"calories"`
}

// LogNutrition records tracked meals for userID.
func (c *Client) LogNutrition(ctx context.Context, userID string, in NutritionLogRequest) (fitness.NutritionLog, error) {
	var out fitness.NutritionLog
	err := c.doJSON(ctx, http.MethodPost, "/users/"+neturl.PathEscape(userID)+"/nutrition-logs", in, &out)
	return out, err
}

// SendReminder counts a reminder delivered to userID and returns the new total of motivation interactions.
func (c *Client) SendReminder(ctx context.Context, userID string) (int, error) {
	var out struct {
		MotivationInteractions int `json:"motivationInteractions"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/users/"+neturl.PathEscape(userID)+"/reminders/send", nil, &out)
	return out.MotivationInteractions, err
}

// Progress reads the analytics report of userID.
func (c *Client) Progress(ctx context.Context, userID string, plannedPerWeek int) (progress.Report, error) {
	var out progress.Report
	path := "/users/" + neturl.PathEscape(userID) + "/progress?plannedPerWeek=" + strconv.Itoa(plannedPerWeek)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// doJSON sends in as the JSON body and decodes a 2xx response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	body, status, err := c.roundTrip(ctx, method, path, in)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return serverError(status, body, ErrUnexpectedResponse)
	}
	if out == nil {
		return nil
	}
	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) ([]byte, int, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// serverError uses the {"error": "..."} message of body or fallback's message.
func serverError(status int, body []byte, fallback error) error {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return &ServerError{StatusCode: status, Message: payload.Error}
	}
	return &ServerError{StatusCode: status, Message: fallback.Error()}
}

// hasDaysArray reports whether body has a plan object with a days array.
func hasDaysArray(body []byte) bool {
	var shape struct {
		Plan *struct {
			Days json.RawMessage `json:"days"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || shape.Plan == nil {
		return false
	}
	return len(bytes.TrimSpace(shape.Plan.Days)) > 0 && bytes.TrimSpace(shape.Plan.Days)[0] == '['
}
