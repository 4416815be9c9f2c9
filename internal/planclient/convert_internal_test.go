package planclient

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/library"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
)

func newTestConverter() *Converter {
	c := NewConverter(library.Default())
	c.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }
	n := 0
	c.newID = func() string {
		n++
		return strconv.Itoa(n)
	}
	return c
}

func TestPrescription(t *testing.T) {
	tests := []struct {
		name string
		in   weeklyplan.Exercise
		want fitness.Prescription
	}{
		{
			name: "reps",
			in:   weeklyplan.Exercise{Name: "", Type: fitness.PrescriptionReps, Sets: 3, Reps: ptr.Ref(12.0), Seconds: nil},
			want: fitness.RepsPrescription(3, 12),
		},
		{
			name: "time",
			in:   weeklyplan.Exercise{Name: "", Type: fitness.PrescriptionTime, Sets: 2, Reps: nil, Seconds: ptr.Ref(45.0)},
			want: fitness.TimePrescription(2, 45),
		},
		{
			name: "rounded",
			in:   weeklyplan.Exercise{Name: "", Type: fitness.PrescriptionReps, Sets: 2.6, Reps: ptr.Ref(9.4), Seconds: nil},
			want: fitness.RepsPrescription(3, 9),
		},
		{
			name: "clamped to one",
			in:   weeklyplan.Exercise{Name: "", Type: fitness.PrescriptionTime, Sets: 0, Reps: nil, Seconds: ptr.Ref(-30.0)},
			want: fitness.TimePrescription(1, 1),
		},
		{
			name: "missing value",
			in:   weeklyplan.Exercise{Name: "", Type: fitness.PrescriptionReps, Sets: 3, Reps: nil, Seconds: ptr.Ref(30.0)},
			want: fitness.RepsPrescription(3, 1),
		},
		{
			name: "unknown type counts reps",
			in:   weeklyplan.Exercise{Name: "", Type: "distance", Sets: 1, Reps: ptr.Ref(5.0), Seconds: nil},
			want: fitness.RepsPrescription(1, 5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, prescription(tt.in)); diff != "" {
				t.Errorf("prescription mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConverter_ToGeneratedPlan(t *testing.T) {
	c := newTestConverter()
	generated := weeklyplan.Plan{Days: []weeklyplan.Day{
		{
			Day: "Monday", DayType: fitness.DayTypeTraining, Focus: "Push",
			Exercises: []weeklyplan.Exercise{
				{Name: "  push-up ", Type: fitness.PrescriptionReps, Sets: 4, Reps: ptr.Ref(8.0), Seconds: nil},
				{Name: "Landmine Press", Type: fitness.PrescriptionReps, Sets: 3, Reps: ptr.Ref(10.0), Seconds: nil},
			},
		},
		{
			Day: "Tuesday", DayType: fitness.DayTypeRecovery, Focus: "Mobility",
			Exercises: []weeklyplan.Exercise{
				{Name: "PLANK", Type: fitness.PrescriptionTime, Sets: 2, Reps: nil, Seconds: ptr.Ref(40.0)},
			},
		},
	}}

	got := c.ToGeneratedPlan("u1", generated, nil)

	if got.ID != "ai-2" || got.UserID != "u1" || !got.CreatedAt.Equal(c.now()) {
		t.Errorf("plan header = %s %s %s", got.ID, got.UserID, got.CreatedAt)
	}
	if len(got.WeeklyPlan) != 2 {
		t.Fatalf("got %d days, want 2", len(got.WeeklyPlan))
	}
	monday := got.WeeklyPlan[0]
	if monday.DayType != fitness.DayTypeTraining || monday.Focus != "Push" {
		t.Errorf("monday = %s %s", monday.DayType, monday.Focus)
	}

	pushUp := monday.Workout[0]
	want, _ := library.Default().Exercise("ex-pushup")
	want.Prescription = fitness.RepsPrescription(4, 8)
	if diff := cmp.Diff(want, pushUp); diff != "" {
		t.Errorf("matched exercise mismatch (-want +got):\n%s", diff)
	}

	placeholder := monday.Workout[1]
	if placeholder.ID != "ex-1" || placeholder.Name != "Landmine Press" || placeholder.Description == "" {
		t.Errorf("placeholder = %+v", placeholder)
	}
	if diff := cmp.Diff(fitness.RepsPrescription(3, 10), placeholder.Prescription); diff != "" {
		t.Errorf("placeholder prescription mismatch (-want +got):\n%s", diff)
	}

	if got.WeeklyPlan[1].Workout[0].ID != "ex-plank" {
		t.Errorf("PLANK matched %s, want ex-plank", got.WeeklyPlan[1].Workout[0].ID)
	}
	for _, day := range got.WeeklyPlan {
		if day.Meals == nil || len(day.Meals) != 0 {
			t.Errorf("%s meals = %v, want empty", day.Day, day.Meals)
		}
	}
}

func TestConverter_ToGeneratedPlanKeepsMeals(t *testing.T) {
	c := newTestConverter()
	lib := library.Default()
	oats, _ := lib.Meal("meal-oats")
	bowl, _ := lib.Meal("meal-chicken-bowl")
	stew, _ := lib.Meal("meal-lentil-stew")
	current := &fitness.GeneratedPlan{
		ID: "plan-1", UserID: "u1", CreatedAt: time.Time{},
		WeeklyPlan: []fitness.DailyPlan{
			{Day: "Monday", DayType: "", Focus: "", Workout: nil, Meals: []fitness.NutritionMeal{oats}, Notes: ""},
			{Day: "Tuesday", DayType: "", Focus: "", Workout: nil, Meals: []fitness.NutritionMeal{bowl}, Notes: ""},
			{Day: "Day 3", DayType: "", Focus: "", Workout: nil, Meals: []fitness.NutritionMeal{stew}, Notes: ""},
		},
	}
	day := func(label string) weeklyplan.Day {
		return weeklyplan.Day{Day: label, DayType: fitness.DayTypeRest, Focus: "", Exercises: nil}
	}
	generated := weeklyplan.Plan{Days: []weeklyplan.Day{day("Tuesday"), day("Monday"), day("Wednesday"), day("Thursday")}}

	got := c.ToGeneratedPlan("u1", generated, current)

	want := [][]string{{"meal-chicken-bowl"}, {"meal-oats"}, {"meal-lentil-stew"}, {}}
	for i, d := range got.WeeklyPlan {
		ids := []string{}
		for _, m := range d.Meals {
			ids = append(ids, m.ID)
		}
		if diff := cmp.Diff(want[i], ids); diff != "" {
			t.Errorf("%s meals mismatch (-want +got):\n%s", d.Day, diff)
		}
	}

	got.WeeklyPlan[1].Meals[0].Tags = append(got.WeeklyPlan[1].Meals[0].Tags[:0], "changed")
	if current.WeeklyPlan[0].Meals[0].Tags[0] == "changed" {
		t.Error("converted plan aliases the meals of the held plan")
	}
}
