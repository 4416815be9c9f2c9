package fitness_test

import (
	"testing"
	"time"

	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/ptr"
)

func TestPrescription_Valid(t *testing.T) {
	tests := []struct {
		name string
		p    fitness.Prescription
		want bool
	}{
		{name: "reps", p: fitness.RepsPrescription(3, 10), want: true},
		{name: "time", p: fitness.TimePrescription(2, 45), want: true},
		{name: "fallback", p: fitness.FallbackPrescription(), want: true},
		{name: "zero sets", p: fitness.RepsPrescription(0, 10), want: false},
		{name: "zero reps", p: fitness.RepsPrescription(3, 0), want: false},
		{
			name: "reps variant carrying seconds",
			p:    fitness.Prescription{Type: fitness.PrescriptionReps, Sets: 3, Reps: ptr.Ref(10), Seconds: ptr.Ref(30)},
			want: false,
		},
		{
			name: "time variant without seconds",
			p:    fitness.Prescription{Type: fitness.PrescriptionTime, Sets: 3, Reps: ptr.Ref(10), Seconds: nil},
			want: false,
		},
		{name: "unknown type", p: fitness.Prescription{Type: "distance", Sets: 1}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrescription_Clone(t *testing.T) {
	original := fitness.RepsPrescription(3, 10)
	clone := original.Clone()
	*clone.Reps = 99
	if *original.Reps != 10 {
		t.Errorf("clone aliases original: reps = %d", *original.Reps)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{date: "2024-01-15", want: "2024-01-15"}, // Monday
		{date: "2024-01-17", want: "2024-01-15"}, // Wednesday
		{date: "2024-01-21", want: "2024-01-15"}, // Sunday
		{date: "2024-03-01", want: "2024-02-26"}, // across month boundary
	}
	for _, tt := range tests {
		d, err := time.Parse(fitness.DateLayout, tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := fitness.FormatDate(fitness.StartOfWeek(d.Add(15 * time.Hour))); got != tt.want {
			t.Errorf("StartOfWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestUserProfile_PrimaryGoal(t *testing.T) {
	if got := (fitness.UserProfile{}).PrimaryGoal(); got != fitness.GoalGeneralFitness {
		t.Errorf("PrimaryGoal() of empty profile = %s", got)
	}
	p := fitness.UserProfile{Goals: []fitness.Goal{fitness.GoalEndurance, fitness.GoalFatLoss}}
	if got := p.PrimaryGoal(); got != fitness.GoalEndurance {
		t.Errorf("PrimaryGoal() = %s, want endurance", got)
	}
}
