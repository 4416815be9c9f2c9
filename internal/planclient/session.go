package planclient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/fitness"
	"github.com/myrjola/fitcoach/internal/state"
)

// PlanState is the plan a user is following. Error holds the message of the last failed request and is cleared
// when a request starts.
type PlanState struct {
	Plan    *fitness.GeneratedPlan
	Loading bool
	Error   string
}

// PlanRequest is the user context a plan is generated from.
type PlanRequest struct {
	SavedWorkouts []any
	Goals         any
	Preferences   any
	StartDate     string
	Days          int
}

// Session holds the plan of one signed-in user. Overlapping requests are not coordinated and the last one to
// finish wins.
type Session struct {
	client    *Client
	converter *Converter
	state     *state.Store[PlanState]
	logger    *slog.Logger
}

func NewSession(client *Client, converter *Converter, logger *slog.Logger) *Session {
	return &Session{
		client:    client,
		converter: converter,
		state:     state.NewStore(PlanState{Plan: nil, Loading: false, Error: ""}),
		logger:    logger,
	}
}

// State exposes the plan state for reading and subscribing.
func (s *Session) State() *state.Store[PlanState] {
	return s.state
}

// Restore loads the plan stored for userID.
func (s *Session) Restore(ctx context.Context, userID string) error {
	s.start()
	p, err := s.client.LoadPlan(ctx, userID)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("load plan: %w", err))
	}
	s.state.Set(PlanState{Plan: p, Loading: false, Error: ""})
	return nil
}

// RequestPlan generates a plan for the user of profile, keeps the meals of the held plan and stores the
// result. The held plan is left as it was when any step fails.
func (s *Session) RequestPlan(ctx context.Context, profile fitness.UserProfile, req PlanRequest) (fitness.GeneratedPlan, error) {
	s.start()
	result, err := s.client.GeneratePlan(ctx, GenerateRequest{
		UserID:        profile.UID,
		SavedWorkouts: req.SavedWorkouts,
		Goals:         req.Goals,
		Preferences:   req.Preferences,
		StartDate:     req.StartDate,
		Days:          req.Days,
	})
	if err != nil {
		return fitness.GeneratedPlan{}, s.fail(ctx, err)
	}
	converted := s.converter.ToGeneratedPlan(profile.UID, result.Plan, s.state.Get().Plan)
	return s.hold(ctx, converted)
}

// LoadWeek fetches a previously generated plan and holds it. When none exists the held plan is kept and nil is
// returned.
func (s *Session) LoadWeek(ctx context.Context, userID, startDate string, days int) (*fitness.GeneratedPlan, error) {
	s.start()
	generated, err := s.client.FetchPlan(ctx, userID, startDate, days)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if generated == nil {
		s.state.Update(func(st PlanState) PlanState {
			st.Loading = false
			return st
		})
		return nil, nil //nolint:nilnil // absence is not an error.
	}
	converted := s.converter.ToGeneratedPlan(userID, *generated, s.state.Get().Plan)
	p, err := s.hold(ctx, converted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) hold(ctx context.Context, p fitness.GeneratedPlan) (fitness.GeneratedPlan, error) {
	saved, err := s.client.SavePlan(ctx, p)
	if err != nil {
		return fitness.GeneratedPlan{}, s.fail(ctx, fmt.Errorf("save plan: %w", err))
	}
	s.state.Set(PlanState{Plan: &saved, Loading: false, Error: ""})
	return saved, nil
}

func (s *Session) start() {
	s.state.Update(func(st PlanState) PlanState {
		st.Loading = true
		st.Error = ""
		return st
	})
}

// UserMessage is the text shown to the user for err: the server's message or the client's generic message.
func UserMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	for _, known := range []error{ErrGenerateFailed, ErrFetchFailed, ErrInvalidGenerated, ErrInvalidFetched} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// fail records the user facing message of err.
func (s *Session) fail(ctx context.Context, err error) error {
	message := UserMessage(err)
	s.logger.LogAttrs(ctx, slog.LevelWarn, "plan request failed", errors.SlogError(err))
	s.state.Update(func(st PlanState) PlanState {
		st.Loading = false
		st.Error = message
		return st
	})
	return err
}
