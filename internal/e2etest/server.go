// Package e2etest starts the API server in-process for end-to-end tests.
package e2etest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/planclient"
)

type Server struct {
	url        string
	client     *planclient.Client
	db         *sql.DB
	cancel     context.CancelCauseFunc
	serverDone chan struct{}
}

// LogAddrKey is the key used to log the address the server is listening on.
const LogAddrKey = "addr"

// LogDsnKey is the data source name key used to log the SQL DSN.
const LogDsnKey = "sqlDsn"

const readyTimeout = 5 * time.Second

// StartServer starts the test server, waits for it to be ready, and returns it. The server is shut down when the
// test ends.
//
// logSink is the writer to which the server logs are written. You usually want to use testhelpers.NewWriter.
// lookupEnv is a function that returns the value of an environment variable. It has same signature as [os.LookupEnv].
// run is the function that starts the server. We expect the server to log the address it's listening on to LogAddrKey
// and the database DSN to LogDsnKey.
func StartServer(
	t *testing.T,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run func(context.Context, *slog.Logger, func(string) (string, bool)) error,
) (*Server, error) {
	var (
		server *Server
		ctx    = t.Context()
	)
	t.Cleanup(func() {
		if server != nil {
			server.Shutdown()
		}
	})
	ctx, cancel := context.WithCancelCause(ctx)
	serverDone := make(chan struct{})

	// The port is allocated dynamically so it has to be read from the log output.
	addrCh := make(chan string, 1)
	dsnCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case LogAddrKey:
				select {
				case addrCh <- a.Value.String():
				default:
				}
			case LogDsnKey:
				select {
				case dsnCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	go func() {
		defer close(serverDone)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()
	addr := ""
	dsn := ""
	for dsn == "" || addr == "" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", context.Cause(ctx))
		case addr = <-addrCh:
		case dsn = <-dsnCh:
		}
	}

	serverURL := "http://" + addr
	client := planclient.New(serverURL, &http.Client{Timeout: time.Minute}) //nolint:exhaustruct // defaults.
	if err := client.WaitForReady(ctx, "/api/healthy", readyTimeout); err != nil {
		cancel(err)
		<-serverDone
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		cancel(err)
		<-serverDone
		return nil, fmt.Errorf("open database: %w", err)
	}

	server = &Server{
		url:        serverURL,
		client:     client,
		db:         db,
		cancel:     cancel,
		serverDone: serverDone,
	}

	return server, nil
}

func (s *Server) Client() *planclient.Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// DB is a connection to the server's database for arranging and inspecting state.
func (s *Server) DB() *sql.DB {
	return s.db
}

func (s *Server) Shutdown() {
	s.cancel(nil)
	<-s.serverDone
	_ = s.db.Close()
}
