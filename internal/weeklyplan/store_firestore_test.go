package weeklyplan_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

// TestFirestoreStore runs against the Firestore emulator, e.g.
// gcloud emulators firestore start --host-port=localhost:8085.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := t.Context()
	client, err := firestore.NewClient(ctx, "fitcoach-test")
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	store := weeklyplan.NewFirestoreStore(client)

	userID := "user-" + time.Now().Format("150405.000000")
	if _, err = store.Get(ctx, userID, "2024-W03"); !errors.Is(err, weeklyplan.ErrNotFound) {
		t.Fatalf("Get missing error = %v, want ErrNotFound", err)
	}

	doc := weeklyplan.Document{
		Week:      "2024-W03",
		PlanID:    "2024-01-15-1",
		UserID:    userID,
		StartDate: ptr.Ref("2024-01-15"),
		Days:      1,
		Plan: weeklyplan.Plan{Days: []weeklyplan.Day{{
			Day: "Monday", DayType: "rest", Focus: "Recovery",
			Exercises: []weeklyplan.Exercise{{Name: "Walk", Type: "time", Sets: 1, Reps: nil, Seconds: ptr.Ref(600.0)}},
		}}},
		Inputs: weeklyplan.Inputs{
			SavedWorkouts: []any{},
			Goals:         map[string]any{"primary": "mobility"},
			Preferences:   map[string]any{},
		},
		CreatedAt: time.Time{},
	}
	if err = store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, userID, doc.PlanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Error("createdAt was not set by the server")
	}
	if got.Plan.Days[0].Exercises[0].Seconds == nil || *got.Plan.Days[0].Exercises[0].Seconds != 600 {
		t.Errorf("stored exercise = %+v", got.Plan.Days[0].Exercises[0])
	}
	if got.Plan.Days[0].Exercises[0].Reps != nil {
		t.Errorf("reps = %v, want nil", *got.Plan.Days[0].Exercises[0].Reps)
	}
}
