package weeklyplan_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/sqlite"
	"github.com/myrjola/fitcoach/internal/testhelpers"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

// stubGenerator returns a plan of the requested length with the focus set to focus.
type stubGenerator struct {
	mu    sync.Mutex
	focus string
	err   error
	calls []weeklyplan.GenerationInput
}

func (g *stubGenerator) Generate(_ context.Context, in weeklyplan.GenerationInput) (weeklyplan.Plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, in)
	if g.err != nil {
		return weeklyplan.Plan{}, g.err
	}
	p := weeklyplan.Plan{Days: make([]weeklyplan.Day, 0, in.Days)}
	for i := range in.Days {
		p.Days = append(p.Days, weeklyplan.Day{
			Day:     fitness.DayLabels()[i%7],
			DayType: fitness.DayTypeRecovery,
			Focus:   g.focus,
			Exercises: []weeklyplan.Exercise{{
				Name: "Walk", Type: fitness.PrescriptionTime, Sets: 1, Reps: nil, Seconds: ptr.Ref(1200.0),
			}},
		})
	}
	return p, nil
}

func newSQLiteStore(t *testing.T) *weeklyplan.SQLiteStore {
	t.Helper()
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", testhelpers.NewTestLogger(t))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return weeklyplan.NewSQLiteStore(db)
}

func request(startDate *string, days int) weeklyplan.Request {
	return weeklyplan.Request{
		UserID: "u1",
		Inputs: weeklyplan.Inputs{
			SavedWorkouts: []any{"Morning run"},
			Goals:         map[string]any{"primary": "endurance"},
			Preferences:   map[string]any{},
		},
		Days:      days,
		StartDate: startDate,
	}
}

func TestService_Generate(t *testing.T) {
	ctx := t.Context()
	generator := &stubGenerator{focus: "Mobility"} //nolint:exhaustruct // zero values are fine.
	svc := weeklyplan.NewService(newSQLiteStore(t), generator, testhelpers.NewTestLogger(t))

	result, err := svc.Generate(ctx, request(ptr.Ref("2024-01-15"), 3))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlanID != "2024-01-15-3" {
		t.Errorf("PlanID = %s, want 2024-01-15-3", result.PlanID)
	}
	if result.Days != 3 || len(result.Plan.Days) != 3 {
		t.Errorf("result has %d days and a %d day plan, want 3", result.Days, len(result.Plan.Days))
	}
	if len(generator.calls) != 1 || generator.calls[0].Days != 3 {
		t.Fatalf("generator calls = %+v", generator.calls)
	}

	stored, err := svc.Get(ctx, "u1", ptr.Ref("2024-01-15"), 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(result.Plan, stored.Plan); diff != "" {
		t.Errorf("stored plan mismatch (-generated +stored):\n%s", diff)
	}
	if stored.Week != result.Week || stored.UserID != "u1" || *stored.StartDate != "2024-01-15" {
		t.Errorf("stored document = %+v", stored)
	}
	if diff := cmp.Diff(request(nil, 3).Inputs, stored.Inputs); diff != "" {
		t.Errorf("stored inputs mismatch (-want +got):\n%s", diff)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("stored document has no creation time")
	}
}

func TestService_GenerateOverwritesSameKey(t *testing.T) {
	ctx := t.Context()
	generator := &stubGenerator{focus: "First"} //nolint:exhaustruct // zero values are fine.
	svc := weeklyplan.NewService(newSQLiteStore(t), generator, testhelpers.NewTestLogger(t))

	if _, err := svc.Generate(ctx, request(nil, 7)); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	generator.focus = "Second"
	second, err := svc.Generate(ctx, request(nil, 7))
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	stored, err := svc.Get(ctx, "u1", nil, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.PlanID != second.PlanID || stored.Plan.Days[0].Focus != "Second" {
		t.Errorf("stored plan %s has focus %q, want the second plan", stored.PlanID, stored.Plan.Days[0].Focus)
	}
	if stored.StartDate != nil {
		t.Errorf("StartDate = %v, want nil", *stored.StartDate)
	}
}

func TestService_GenerateErrors(t *testing.T) {
	upstream := errors.New("upstream failed")
	tests := []struct {
		name      string
		generator weeklyplan.Generator
		wantErr   error
	}{
		{name: "not configured", generator: nil, wantErr: weeklyplan.ErrProviderNotConfigured},
		{
			name:      "generator failure",
			generator: &stubGenerator{err: upstream}, //nolint:exhaustruct // zero values are fine.
			wantErr:   upstream,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSQLiteStore(t)
			svc := weeklyplan.NewService(store, tt.generator, testhelpers.NewTestLogger(t))
			if _, err := svc.Generate(t.Context(), request(nil, 7)); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Generate error = %v, want %v", err, tt.wantErr)
			}
			if _, err := svc.Get(t.Context(), "u1", nil, 7); !errors.Is(err, weeklyplan.ErrNotFound) {
				t.Errorf("Get after failed generation error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestService_Get(t *testing.T) {
	ctx := t.Context()
	svc := weeklyplan.NewService(newSQLiteStore(t), &stubGenerator{}, testhelpers.NewTestLogger(t)) //nolint:exhaustruct // zero values are fine.

	if _, err := svc.Generate(ctx, request(ptr.Ref("2024-03-04"), 5)); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name      string
		userID    string
		startDate *string
		days      int
		wantErr   error
	}{
		{name: "same key", userID: "u1", startDate: ptr.Ref("2024-03-04"), days: 5, wantErr: nil},
		{name: "other length", userID: "u1", startDate: ptr.Ref("2024-03-04"), days: 7, wantErr: weeklyplan.ErrNotFound},
		{name: "other user", userID: "u2", startDate: ptr.Ref("2024-03-04"), days: 5, wantErr: weeklyplan.ErrNotFound},
		{name: "current week", userID: "u1", startDate: nil, days: 5, wantErr: weeklyplan.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := svc.Get(ctx, tt.userID, tt.startDate, tt.days)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				want := weeklyplan.Document{ //nolint:exhaustruct // compared without volatile fields.
					PlanID: "2024-03-04-5", UserID: "u1", StartDate: ptr.Ref("2024-03-04"), Days: 5,
				}
				opts := cmpopts.IgnoreFields(weeklyplan.Document{}, "Week", "Plan", "Inputs", "CreatedAt")
				if diff := cmp.Diff(want, doc, opts); diff != "" {
					t.Errorf("document mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
