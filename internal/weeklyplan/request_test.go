package weeklyplan_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

func TestValidateStartDate(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "2024-01-15", wantErr: false},
		{value: "2024-02-29", wantErr: false},
		{value: "2024-02-30", wantErr: true},
		{value: "2023-02-29", wantErr: true},
		{value: "2024-13-01", wantErr: true},
		{value: "2024-1-15", wantErr: true},
		{value: "15.01.2024", wantErr: true},
		{value: "2024-01-15T00:00:00Z", wantErr: true},
		{value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := weeklyplan.ValidateStartDate(tt.value)
			if tt.wantErr && !errors.Is(err, weeklyplan.ErrInvalidStartDate) {
				t.Errorf("ValidateStartDate(%q) error = %v, want ErrInvalidStartDate", tt.value, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateStartDate(%q) unexpected error: %v", tt.value, err)
			}
		})
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "", want: 7},
		{value: "3", want: 3},
		{value: "14", want: 14},
		{value: "7.0", want: 7},
		{value: "0", wantErr: true},
		{value: "-1", wantErr: true},
		{value: "2.5", wantErr: true},
		{value: "seven", wantErr: true},
		{value: "NaN", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := weeklyplan.ParseDays(tt.value)
			if tt.wantErr {
				if !errors.Is(err, weeklyplan.ErrInvalidDays) {
					t.Errorf("ParseDays(%q) error = %v, want ErrInvalidDays", tt.value, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDays(%q) = %d, %v; want %d", tt.value, got, err, tt.want)
			}
		})
	}
}

func TestISOWeekKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date: time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC), want: "2024-W03"},
		{date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), want: "2024-W03"},
		{date: time.Date(2024, 1, 21, 23, 59, 0, 0, time.UTC), want: "2024-W03"},
		// Thursday rule: 2021-01-03 belongs to the last week of 2020.
		{date: time.Date(2021, 1, 3, 12, 0, 0, 0, time.UTC), want: "2020-W53"},
		{date: time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC), want: "2025-W01"},
	}
	for _, tt := range tests {
		if got := weeklyplan.ISOWeekKey(tt.date); got != tt.want {
			t.Errorf("ISOWeekKey(%s) = %s, want %s", tt.date.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestPlanID(t *testing.T) {
	now := time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
	if got := weeklyplan.PlanID(ptr.Ref("2024-01-15"), 7, now); got != "2024-01-15-7" {
		t.Errorf("PlanID with start date = %s, want 2024-01-15-7", got)
	}
	if got := weeklyplan.PlanID(nil, 5, now); got != "2024-W03" {
		t.Errorf("PlanID without start date = %s, want 2024-W03", got)
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    weeklyplan.Request
		wantErr error
	}{
		{
			name: "defaults",
			body: `{"userId":"u1"}`,
			want: weeklyplan.Request{
				UserID: "u1",
				Inputs: weeklyplan.Inputs{
					SavedWorkouts: []any{}, Goals: map[string]any{}, Preferences: map[string]any{},
				},
				Days:      7,
				StartDate: nil,
			},
		},
		{
			name: "all fields",
			body: `{"userId":"u1","days":"5","startDate":"2024-01-15","goals":{"primary":"endurance"},
"savedWorkouts":[{"name":"Run"}],"preferences":null}`,
			want: weeklyplan.Request{
				UserID: "u1",
				Inputs: weeklyplan.Inputs{
					SavedWorkouts: []any{map[string]any{"name": "Run"}},
					Goals:         map[string]any{"primary": "endurance"},
					Preferences:   map[string]any{},
				},
				Days:      5,
				StartDate: ptr.Ref("2024-01-15"),
			},
		},
		{name: "null start date", body: `{"userId":"u1","startDate":null,"days":3}`, want: weeklyplan.Request{
			UserID: "u1",
			Inputs: weeklyplan.Inputs{SavedWorkouts: []any{}, Goals: map[string]any{}, Preferences: map[string]any{}},
			Days:   3, StartDate: nil,
		}},
		{name: "missing user", body: `{"days":7}`, wantErr: weeklyplan.ErrInvalidUserID},
		{name: "empty user", body: `{"userId":""}`, wantErr: weeklyplan.ErrInvalidUserID},
		{name: "numeric user", body: `{"userId":42}`, wantErr: weeklyplan.ErrInvalidUserID},
		{name: "not an object", body: `[]`, wantErr: weeklyplan.ErrInvalidUserID},
		{name: "zero days", body: `{"userId":"u1","days":0}`, wantErr: weeklyplan.ErrInvalidDays},
		{name: "fractional days", body: `{"userId":"u1","days":1.5}`, wantErr: weeklyplan.ErrInvalidDays},
		{name: "boolean days", body: `{"userId":"u1","days":true}`, wantErr: weeklyplan.ErrInvalidDays},
		{name: "impossible date", body: `{"userId":"u1","startDate":"2024-02-30"}`, wantErr: weeklyplan.ErrInvalidStartDate},
		{name: "empty date", body: `{"userId":"u1","startDate":""}`, wantErr: weeklyplan.ErrInvalidStartDate},
		{name: "numeric date", body: `{"userId":"u1","startDate":20240115}`, wantErr: weeklyplan.ErrInvalidStartDate},
		{name: "user checked before days", body: `{"days":0}`, wantErr: weeklyplan.ErrInvalidUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := weeklyplan.ParseRequest([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseRequest error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
