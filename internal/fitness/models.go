// Package fitness holds the entities shared by plan generation, progress tracking and motivation.
package fitness

import (
	"time"

	"github.com/myrjola/fitcoach/internal/ptr"
)

// DateLayout is the calendar date format used by logs, plan ids and start dates.
const DateLayout = time.DateOnly

// Goal is a training goal chosen during onboarding.
type Goal string

const (
	GoalFatLoss        Goal = "fat_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalFatLoss, GoalMuscleGain, GoalEndurance, GoalGeneralFitness:
		return true
	}
	return false
}

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// DayType classifies a day of a generated plan.
type DayType string

const (
	DayTypeTraining     DayType = "training"
	DayTypeConditioning DayType = "conditioning"
	DayTypeRecovery     DayType = "recovery"
	DayTypeRest         DayType = "rest"
)

// FontScale is an accessibility preference.
type FontScale string

const (
	FontScaleNormal FontScale = "normal"
	FontScaleLarge  FontScale = "large"
	FontScaleXLarge FontScale = "xlarge"
)

// Preferences are presentation and consent settings of a user.
type Preferences struct {
	HighContrast    bool      `json:"highContrast"`
	FontScale       FontScale `json:"fontScale"`
	Locale          string    `json:"locale"`
	ConsentAccepted bool      `json:"consentAccepted"`
}

// DefaultPreferences are applied to a profile that has never stored preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		HighContrast:    false,
		FontScale:       FontScaleNormal,
		Locale:          "en-US",
		ConsentAccepted: false,
	}
}

// UserProfile is what onboarding collects about a user.
type UserProfile struct {
	UID                string      `json:"uid"`
	Email              string      `json:"email"`
	Age                int         `json:"age"`
	WeightKg           float64     `json:"weightKg"`
	Goals              []Goal      `json:"goals"`
	Equipment          []string    `json:"equipment"`
	ScheduleDays       int         `json:"scheduleDays"`
	OnboardingComplete bool        `json:"onboardingComplete"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
	Preferences        Preferences `json:"preferences"`
}

// PrimaryGoal returns the first goal, or general fitness when no goal is set.
func (p UserProfile) PrimaryGoal() Goal {
	if len(p.Goals) == 0 {
		return GoalGeneralFitness
	}
	return p.Goals[0]
}

type PrescriptionType string

const (
	PrescriptionReps PrescriptionType = "reps"
	PrescriptionTime PrescriptionType = "time"
)

// Prescription is the dosage of an exercise: either sets × reps or sets × seconds. Exactly one of Reps and
// Seconds is set and it matches Type.
type Prescription struct {
	Type    PrescriptionType `json:"type"`
	Sets    int              `json:"sets"`
	Reps    *int             `json:"reps,omitempty"`
	Seconds *int             `json:"seconds,omitempty"`
}

// RepsPrescription builds a sets × reps prescription.
func RepsPrescription(sets, reps int) Prescription {
	return Prescription{Type: PrescriptionReps, Sets: sets, Reps: ptr.Ref(reps), Seconds: nil}
}

// TimePrescription builds a sets × seconds prescription.
func TimePrescription(sets, seconds int) Prescription {
	return Prescription{Type: PrescriptionTime, Sets: sets, Reps: nil, Seconds: ptr.Ref(seconds)}
}

// FallbackPrescription is used when neither the exercise nor the library provide a usable prescription.
func FallbackPrescription() Prescription {
	return TimePrescription(1, 60) //nolint:mnd // one minute.
}

// Valid reports whether the variant is well-formed.
func (p Prescription) Valid() bool {
	if p.Sets < 1 {
		return false
	}
	switch p.Type {
	case PrescriptionReps:
		return p.Reps != nil && *p.Reps >= 1 && p.Seconds == nil
	case PrescriptionTime:
		return p.Seconds != nil && *p.Seconds >= 1 && p.Reps == nil
	}
	return false
}

// Clone returns a deep copy so that library templates are never aliased by plans.
func (p Prescription) Clone() Prescription {
	c := p
	if p.Reps != nil {
		c.Reps = ptr.Ref(*p.Reps)
	}
	if p.Seconds != nil {
		c.Seconds = ptr.Ref(*p.Seconds)
	}
	return c
}

// WorkoutExercise is a library template or an exercise inside a plan.
type WorkoutExercise struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	TargetMuscles []string     `json:"targetMuscles"`
	Equipment     []string     `json:"equipment"`
	Prescription  Prescription `json:"prescription"`
	Intensity     Intensity    `json:"intensity"`
	ImageURL      string       `json:"imageUrl"`
}

// NutritionMeal is a library meal or a meal inside a plan.
type NutritionMeal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	ProteinG    int      `json:"proteinG"`
	CarbsG      int      `json:"carbsG"`
	FatsG       int      `json:"fatsG"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
}

// DailyPlan is one day of a GeneratedPlan.
type DailyPlan struct {
	Day     string            `json:"day"`
	DayType DayType           `json:"dayType,omitempty"`
	Focus   string            `json:"focus,omitempty"`
	Workout []WorkoutExercise `json:"workout"`
	Meals   []NutritionMeal   `json:"meals"`
	Notes   string            `json:"notes"`
}

// GeneratedPlan is a week (or N days) of prescribed exercises and meals. Plans are replaced wholesale on
// regeneration and never partially mutated.
type GeneratedPlan struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	CreatedAt  time.Time   `json:"createdAt"`
	WeeklyPlan []DailyPlan `json:"weeklyPlan"`
}

// WorkoutLog is an append-only record of a workout.
type WorkoutLog struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Date        string   `json:"date"`
	ExerciseIDs []string `json:"exerciseIds"`
	Completed   bool     `json:"completed"`
	DurationMin int      `json:"durationMin"`
}

// NutritionLog is an append-only record of tracked meals.
type NutritionLog struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Date     string   `json:"date"`
	MealIDs  []string `json:"mealIds"`
	Calories int      `json:"calories"`
}

type Milestone struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AchievedAt time.Time `json:"achievedAt"`
	Detail     string    `json:"detail"`
}

type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earnedAt"`
}

type Reminder struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Schedule string `json:"schedule"`
	Enabled  bool   `json:"enabled"`
}

// ProgressSnapshot is derived from logs on every read and never stored.
type ProgressSnapshot struct {
	StreakDays           int         `json:"streakDays"`
	TotalWorkouts        int         `json:"totalWorkouts"`
	TotalCaloriesTracked int         `json:"totalCaloriesTracked"`
	Milestones           []Milestone `json:"milestones"`
	WeeklyCompletionRate int         `json:"weeklyCompletionRate"`
}

type WeeklySummary struct {
	WeekStart         string `json:"weekStart"`
	WorkoutsCompleted int    `json:"workoutsCompleted"`
	WorkoutsPlanned   int    `json:"workoutsPlanned"`
	AvgCalories       int    `json:"avgCalories"`
	StreakDays        int    `json:"streakDays"`
}

// TrendPoint aggregates the logs of one calendar date.
type TrendPoint struct {
	Label    string `json:"label"`
	Workouts int    `json:"workouts"`
	Calories int    `json:"calories"`
}

type EngagementMetrics struct {
	DauWauRatio            float64 `json:"dauWauRatio"`
	AverageSessionMinutes  int     `json:"averageSessionMinutes"`
	MotivationInteractions int     `json:"motivationInteractions"`
	Retention30d           int     `json:"retention30d"`
}

// DayLabels are the canonical week order of a plan.
func DayLabels() []string {
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
}

// FormatDate formats t as YYYY-MM-DD in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfWeek returns the Monday of t's week at midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 //nolint:mnd // Monday is 0, Sunday is 6.
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}
