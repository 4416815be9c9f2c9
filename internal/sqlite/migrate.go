package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// schemaObject pairs an entry of the live sqlite_schema with its counterpart in the target schema. An empty
// liveSQL means the object is new and an empty targetSQL means it was removed.
type schemaObject struct {
	name      string
	liveSQL   string
	targetSQL string
}

func (o schemaObject) added() bool   { return o.liveSQL == "" }
func (o schemaObject) removed() bool { return o.targetSQL == "" }

// changed ignores quoting because ALTER TABLE RENAME adds double quotes around the table name.
func (o schemaObject) changed() bool {
	return strings.ReplaceAll(o.liveSQL, `"`, "") != strings.ReplaceAll(o.targetSQL, `"`, "")
}

// migrateTo makes the live schema match schemaDefinition declaratively: removed tables are dropped, new tables
// created, changed tables rebuilt and indexes and triggers re-synchronised.
//
// Tables are rebuilt with the generalized ALTER TABLE procedure https://www.sqlite.org/lang_altertable.html#otheralter
// and the approach follows https://david.rothlis.net/declarative-schema-migration-for-sqlite/.
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	start := time.Now()

	detach, err := db.attachSchemaTarget(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach schema target: %w", err)
	}
	defer detach()

	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, fmt.Errorf("re-enable foreign keys: %w", fkErr))
		}
	}()

	var tx *sql.Tx
	if tx, err = db.ReadWrite.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer db.Rollback(ctx, tx)()

	if err = db.migrateTables(ctx, tx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	// Rebuilt tables lose their indexes and triggers so these are diffed only after the tables.
	for _, typ := range []string{"index", "trigger"} {
		if err = db.migrateObjects(ctx, tx, typ); err != nil {
			return fmt.Errorf("migrate %ss: %w", typ, err)
		}
	}

	var violations []schemaObject
	if violations, err = db.queryObjects(ctx, tx,
		`SELECT "table", '', '' FROM pragma_foreign_key_check`); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("foreign key check: violations in table %s", violations[0].name)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachSchemaTarget creates the target schema in a scratch in-memory database and attaches it as schemaTarget.
// The returned function detaches it.
func (db *Database) attachSchemaTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open schema target: %w", err)
	}
	// The shared cache keeps the in-memory database alive for as long as it stays attached.
	defer func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target", slog.Any("error", closeErr))
		}
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target", slog.Any("error", detachErr))
		}
	}, nil
}

// diffQuery lists objects of one type from both schemas. FULL OUTER JOIN keeps removed and added objects.
const diffQuery = `SELECT COALESCE(live.name, target.name),
       COALESCE(live.sql, ''),
       COALESCE(target.sql, '')
FROM (SELECT name, sql FROM main.sqlite_schema WHERE type = :type AND sql IS NOT NULL) AS live
         FULL OUTER JOIN (SELECT name, sql FROM schemaTarget.sqlite_schema WHERE type = :type AND sql IS NOT NULL) AS target
                         ON live.name = target.name
WHERE COALESCE(live.name, target.name) NOT LIKE 'sqlite_%'
ORDER BY 1`

func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	tables, err := db.queryObjects(ctx, tx, diffQuery, sql.Named("type", "table"))
	if err != nil {
		return fmt.Errorf("diff tables: %w", err)
	}
	for _, table := range tables {
		switch {
		case table.removed():
			err = db.exec(ctx, tx, fmt.Sprintf("DROP TABLE %s", table.name))
		case table.added():
			err = db.exec(ctx, tx, table.targetSQL)
		case table.changed():
			err = db.rebuildTable(ctx, tx, table)
		}
		if err != nil {
			return fmt.Errorf("table %s: %w", table.name, err)
		}
	}
	return nil
}

// rebuildTable creates the new definition under a temporary name, copies the columns both definitions share
// and swaps the tables.
func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, table schemaObject) error {
	tempName := table.name + "_migration_temp"
	if err := db.exec(ctx, tx, strings.Replace(table.targetSQL, table.name, tempName, 1)); err != nil {
		return fmt.Errorf("create temporary table: %w", err)
	}

	// Column names are quoted in case they are SQLite keywords.
	columns, err := db.queryObjects(ctx, tx, `SELECT '"' || target.name || '"', '', ''
FROM pragma_table_info(:table) AS live
         JOIN pragma_table_info(:table, 'schemaTarget') AS target ON target.name = live.name`,
		sql.Named("table", table.name))
	if err != nil {
		return fmt.Errorf("query common columns: %w", err)
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	common := strings.Join(names, ", ")

	for _, query := range []string{
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", tempName, common, common, table.name),
		fmt.Sprintf("DROP TABLE %s", table.name),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tempName, table.name),
	} {
		if err = db.exec(ctx, tx, query); err != nil {
			return err
		}
	}
	return nil
}

// migrateObjects synchronises indexes or triggers by dropping and recreating anything that differs.
func (db *Database) migrateObjects(ctx context.Context, tx *sql.Tx, typ string) error {
	objects, err := db.queryObjects(ctx, tx, diffQuery, sql.Named("type", typ))
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	keyword := strings.ToUpper(typ)
	for _, o := range objects {
		if !o.added() && !o.changed() {
			continue
		}
		if !o.added() {
			if err = db.exec(ctx, tx, fmt.Sprintf("DROP %s %s", keyword, o.name)); err != nil {
				return err
			}
		}
		if !o.removed() {
			if err = db.exec(ctx, tx, o.targetSQL); err != nil {
				return err
			}
		}
	}
	return nil
}

func (db *Database) exec(ctx context.Context, tx *sql.Tx, query string) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating schema", slog.String("query", query))
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("exec %q: %w", query, err)
	}
	return nil
}

// queryObjects scans three string columns into schemaObjects.
func (db *Database) queryObjects(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]schemaObject, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "could not close rows", slog.Any("error", closeErr))
		}
	}()
	var objects []schemaObject
	for rows.Next() {
		var o schemaObject
		if err = rows.Scan(&o.name, &o.liveSQL, &o.targetSQL); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		objects = append(objects, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return objects, nil
}
