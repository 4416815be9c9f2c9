package weeklyplan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/ptr"
)

// Request is a validated generation request.
type Request struct {
	UserID    string
	Inputs    Inputs
	Days      int
	StartDate *string
}

var startDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateStartDate accepts YYYY-MM-DD dates that exist in the calendar, rejecting e.g. 2024-02-30.
func ValidateStartDate(value string) error {
	if !startDatePattern.MatchString(value) {
		return errors.Wrap(ErrInvalidStartDate, "malformed start date", slog.String("start_date", value))
	}
	t, err := time.Parse(fitness.DateLayout, value)
	if err != nil || t.Format(fitness.DateLayout) != value {
		return errors.Wrap(ErrInvalidStartDate, "start date does not exist", slog.String("start_date", value))
	}
	return nil
}

// ParseDays parses a query or body value for the plan length. An empty value means DefaultDays.
func ParseDays(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultDays, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidDays, "days is not a number", slog.String("days", value))
	}
	return daysFromNumber(f)
}

func daysFromNumber(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, errors.Wrap(ErrInvalidDays, "days is not a positive integer", slog.Float64("days", f))
	}
	return int(f), nil
}

// ISOWeekKey formats the ISO 8601 week of t as YYYY-Www.
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PlanID is startDate-days when a start date is given and the ISO week key of now otherwise.
func PlanID(startDate *string, days int, now time.Time) string {
	if startDate != nil {
		return fmt.Sprintf("%s-%d", *startDate, days)
	}
	return ISOWeekKey(now)
}

type rawRequest struct {
	UserID        json.RawMessage `json:"userId"`
	SavedWorkouts any             `json:"savedWorkouts"`
	Goals         any             `json:"goals"`
	Preferences   any             `json:"preferences"`
	Days          json.RawMessage `json:"days"`
	StartDate     json.RawMessage `json:"startDate"`
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ParseRequest validates a generation request body. The checks run in the order userId, days, startDate and the
// first failure is returned.
func ParseRequest(body []byte) (Request, error) {
	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, errors.Wrap(ErrInvalidUserID, "request body is not a JSON object")
	}

	var userID string
	if err := json.Unmarshal(raw.UserID, &userID); err != nil || userID == "" {
		return Request{}, errors.Wrap(ErrInvalidUserID, "missing user id")
	}

	days := DefaultDays
	if !isNull(raw.Days) {
		var (
			number float64
			text   string
			err    error
		)
		switch {
		case json.Unmarshal(raw.Days, &number) == nil:
			days, err = daysFromNumber(number)
		case json.Unmarshal(raw.Days, &text) == nil:
			days, err = ParseDays(text)
		default:
			err = errors.Wrap(ErrInvalidDays, "days has an unsupported type")
		}
		if err != nil {
			return Request{}, err
		}
	}

	var startDate *string
	if !isNull(raw.StartDate) {
		var text string
		if err := json.Unmarshal(raw.StartDate, &text); err != nil {
			return Request{}, errors.Wrap(ErrInvalidStartDate, "startDate is not a string")
		}
		if err := ValidateStartDate(text); err != nil {
			return Request{}, err
		}
		startDate = ptr.Ref(text)
	}

	return Request{
		UserID:    userID,
		Inputs:    newInputs(raw.SavedWorkouts, raw.Goals, raw.Preferences),
		Days:      days,
		StartDate: startDate,
	}, nil
}

// newInputs substitutes empty values for missing inputs.
func newInputs(savedWorkouts, goals, preferences any) Inputs {
	if savedWorkouts == nil {
		savedWorkouts = []any{}
	}
	if goals == nil {
		goals = map[string]any{}
	}
	if preferences == nil {
		preferences = map[string]any{}
	}
	return Inputs{SavedWorkouts: savedWorkouts, Goals: goals, Preferences: preferences}
}
