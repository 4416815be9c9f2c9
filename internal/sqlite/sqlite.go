// Package sqlite opens the application database and keeps its schema in sync with schema.sql.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds a single-connection writer pool and a pooled read-only view of the same database.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to url, migrates the schema and starts the periodic optimizer which stops with ctx.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(fmt.Errorf("migrateTo: %w", err), db.Close())
	}

	go db.startDatabaseOptimizer(ctx, optimizeInterval)

	return db, nil
}

//nolint:gochecknoglobals // the driver can be registered only once per process.
var once sync.Once

const optimizedDriver = "sqlite3optimized"

func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec(
					"PRAGMA temp_store = memory;"+
						"PRAGMA mmap_size = 30000000000;"+
						"PRAGMA cache_size = -16000;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sql.DB
		readDB      *sql.DB
	)

	// Each in-memory database gets a unique shared-cache name so that both pools see the same data while
	// parallel tests stay isolated. See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		inMemoryConfig = "&mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		"_loc=auto",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")

	// Options prefixed with '_' are documented at https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open.
	readConfig := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, commonConfig, inMemoryConfig)
	readWriteConfig := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, commonConfig, inMemoryConfig)
	once.Do(registerOptimizedDriver)

	if readWriteDB, err = sql.Open(optimizedDriver, readWriteConfig); err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("sqlDsn", readWriteConfig))

	// SQLite allows one writer at a time. Queuing writes in the pool avoids SQLITE_BUSY.
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write database: %w", err), readWriteDB.Close())
	}

	if readDB, err = sql.Open(optimizedDriver, readConfig); err != nil {
		return nil, errors.Join(fmt.Errorf("open read database: %w", err), readWriteDB.Close())
	}

	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}

// Rollback returns a function that rolls back tx unless it has already been committed. Use it with defer right
// after BeginTx.
func (db *Database) Rollback(ctx context.Context, tx *sql.Tx) func() {
	return func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				slog.Any("error", fmt.Errorf("rollback transaction: %w", err)))
		}
	}
}
