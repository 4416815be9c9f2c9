package weeklyplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

// SQLiteStore keeps plans in the weekly_plans table.
type SQLiteStore struct {
	db *sqlite.Database
}

func NewSQLiteStore(db *sqlite.Database) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, doc Document) error {
	plan, err := json.Marshal(doc.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	inputs, err := json.Marshal(doc.Inputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}
	var startDate sql.NullString
	if doc.StartDate != nil {
		startDate = sql.NullString{String: *doc.StartDate, Valid: true}
	}
	if _, err = s.db.ReadWrite.ExecContext(ctx, `
INSERT INTO weekly_plans (user_id, plan_id, week, start_date, days, plan, inputs, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, plan_id) DO UPDATE SET week       = excluded.week,
                                             start_date = excluded.start_date,
                                             days       = excluded.days,
                                             plan       = excluded.plan,
                                             inputs     = excluded.inputs,
                                             created_at = excluded.created_at`,
		doc.UserID, doc.PlanID, doc.Week, startDate, doc.Days, string(plan), string(inputs),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("upsert weekly plan: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, planID string) (Document, error) {
	var (
		doc       = Document{UserID: userID, PlanID: planID} //nolint:exhaustruct // scanned below.
		startDate sql.NullString
		plan      string
		inputs    string
		createdAt string
	)
	err := s.db.ReadOnly.QueryRowContext(ctx, `
SELECT week, start_date, days, plan, inputs, created_at
FROM weekly_plans
WHERE user_id = ? AND plan_id = ?`, userID, planID).
		Scan(&doc.Week, &startDate, &doc.Days, &plan, &inputs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("select weekly plan: %w", err)
	}
	if startDate.Valid {
		doc.StartDate = &startDate.String
	}
	if err = json.Unmarshal([]byte(plan), &doc.Plan); err != nil {
		return Document{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	if err = json.Unmarshal([]byte(inputs), &doc.Inputs); err != nil {
		return Document{}, fmt.Errorf("unmarshal inputs: %w", err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, fmt.Errorf("parse created_at: %w", err)
	}
	return doc, nil
}
