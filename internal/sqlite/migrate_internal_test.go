package sqlite

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/fitcoach/internal/testhelpers"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		schemaDefinitions []string
		testQueries       []string
		wantErr           bool
	}{
		{
			name:              "empty schema",
			schemaDefinitions: []string{""},
			testQueries:       []string{"SELECT * FROM sqlite_schema"},
			wantErr:           false,
		},
		{
			name:              "create table",
			schemaDefinitions: []string{"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"},
			testQueries: []string{
				"INSERT INTO test (name) VALUES ('test')",
				"SELECT * FROM test",
			},
			wantErr: false,
		},
		{
			name: "drop table",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
				"", // drop table
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "add column",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
		{
			name: "remove column",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "create index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     false,
		},
		{
			name: "drop index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     true,
		},
		{
			name: "update index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (id, name)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     false,
		},
		{
			name: "create trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "delete trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
				"CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT )",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
		{
			name: "rebuild keeps data in common columns",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT, obsolete TEXT)",
				"INSERT INTO test (id, name, obsolete) VALUES (1, 'kept', 'x')",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT NOT NULL DEFAULT '', added INTEGER)",
			},
			testQueries: []string{"INSERT INTO test (id, name, added) VALUES (1, 'duplicate', 2)"},
			wantErr:     true,
		},
		{
			name: "update trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT 1; END;`,
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := t.Context()
			logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
			db, err := connect(ctx, ":memory:", logger)
			if err != nil {
				t.Fatalf("Failed to connect to database: %v", err)
			}
			defer func(db *Database) {
				err = db.Close()
				if err != nil {
					t.Errorf("Failed to close database: %v", err)
				}
			}(db)

			for _, schemaDefinition := range tt.schemaDefinitions {
				if strings.HasPrefix(schemaDefinition, "INSERT") {
					if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
						t.Fatalf("Failed to seed: %v", err)
					}
					continue
				}
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", schemaDefinition))
				err = db.migrateTo(ctx, schemaDefinition)
				if err != nil {
					t.Fatalf("Failed to migrate: %v", err)
				}
			}

			for _, query := range tt.testQueries {
				logger.LogAttrs(ctx, slog.LevelInfo, "executing", slog.String("query", query))
				_, err = db.ReadWrite.ExecContext(ctx, query)
				if tt.wantErr && err == nil {
					t.Errorf("Expected error for query %q, but got none", query)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("Unexpected error for query %q: %v", query, err)
				}
			}
		})
	}
}

func TestDatabase_migrateWeeklyPlanConstraints(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := connect(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	}()

	unconstrained := `CREATE TABLE weekly_plans
(
    user_id TEXT    NOT NULL,
    plan_id TEXT    NOT NULL,
    week    TEXT    NOT NULL,
    days    INTEGER NOT NULL,
    plan    TEXT    NOT NULL,
    inputs  TEXT    NOT NULL,
    PRIMARY KEY (user_id, plan_id)
) STRICT, WITHOUT ROWID`
	if err = db.migrateTo(ctx, unconstrained); err != nil {
		t.Fatalf("Failed to migrate to unconstrained schema: %v", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, `INSERT INTO weekly_plans (user_id, plan_id, week, days, plan, inputs)
VALUES ('u1', '2024-01-15-7', '2024-W03', 7, '{"days":[]}', '{}')`); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		t.Fatalf("Failed to migrate to current schema: %v", err)
	}

	var (
		days      int
		startDate *string
		createdAt string
	)
	if err = db.ReadWrite.QueryRowContext(ctx,
		`SELECT days, start_date, created_at FROM weekly_plans WHERE user_id = 'u1' AND plan_id = '2024-01-15-7'`,
	).Scan(&days, &startDate, &createdAt); err != nil {
		t.Fatalf("Seeded plan lost in migration: %v", err)
	}
	if days != 7 || startDate != nil || createdAt == "" {
		t.Errorf("migrated row days = %d, start_date = %v, created_at = %q", days, startDate, createdAt)
	}

	tests := []struct {
		name   string
		userID string
		days   int
		plan   string
	}{
		{name: "empty user", userID: "", days: 7, plan: `{"days":[]}`},
		{name: "no days", userID: "u2", days: 0, plan: `{"days":[]}`},
		{name: "plan not json", userID: "u2", days: 7, plan: `{"days":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ReadWrite.ExecContext(t.Context(),
				`INSERT INTO weekly_plans (user_id, plan_id, week, days, plan, inputs) VALUES (?, 'p', '2024-W03', ?, ?, '{}')`,
				tt.userID, tt.days, tt.plan)
			if err == nil {
				t.Error("insert violating the weekly plan constraints succeeded")
			}
		})
	}
}
