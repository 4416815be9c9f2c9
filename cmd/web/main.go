package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"github.com/myrjola/fitcoach/internal/docstore"
	"github.com/myrjola/fitcoach/internal/envstruct"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/flightrecorder"
	"github.com/myrjola/fitcoach/internal/library"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/profile"
	"github.com/myrjola/fitcoach/internal/progress"
	"github.com/myrjola/fitcoach/internal/sqlite"
	"github.com/myrjola/fitcoach/internal/weeklyplan"
	"github.com/rs/cors"
)

type application struct {
	logger            *slog.Logger
	library           *library.Library
	plans             *plan.Service
	profiles          *profile.Service
	progress          *progress.Service
	weeklyPlans       *weeklyplan.Service
	cors              *cors.Cors
	flightRecorder    *flightrecorder.Service
	requestTimeout    time.Duration
	generationTimeout time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"COACH_ADDR" envDefault:"localhost:5001"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"COACH_SQLITE_URL" envDefault:"./fitcoach.sqlite3"`
	// PlanStore selects where generated weekly plans are kept: sqlite or firestore.
	PlanStore string `env:"COACH_PLAN_STORE" envDefault:"sqlite"`
	// FirestoreProject is the Google Cloud project of the firestore plan store.
	FirestoreProject string `env:"COACH_FIRESTORE_PROJECT" envDefault:""`
	// OpenAIAPIKey enables plan generation. Without it generation requests fail with 500.
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4.1-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	// GenerationTimeout bounds a single generation attempt.
	GenerationTimeout  time.Duration `env:"COACH_GENERATION_TIMEOUT" envDefault:"60s"`
	GenerationAttempts int           `env:"COACH_GENERATION_ATTEMPTS" envDefault:"2"`
	GenerationBackoff  time.Duration `env:"COACH_GENERATION_BACKOFF" envDefault:"500ms"`
	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins    string        `env:"COACH_CORS_ORIGINS" envDefault:"*"`
	RequestTimeout time.Duration `env:"COACH_REQUEST_TIMEOUT" envDefault:"5s"`
	// TracesDirectory enables capturing runtime traces of timed out requests.
	TracesDirectory string `env:"COACH_TRACES_DIRECTORY" envDefault:""`
}

const (
	planStoreSQLite    = "sqlite"
	planStoreFirestore = "firestore"
)

// generationDeadline is the longest a generation request may take including retries.
func (cfg config) generationDeadline() time.Duration {
	attempts := time.Duration(max(1, cfg.GenerationAttempts))
	return attempts*cfg.GenerationTimeout + attempts*(attempts-1)/2*cfg.GenerationBackoff + cfg.RequestTimeout
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	var planStore weeklyplan.Store
	switch cfg.PlanStore {
	case planStoreSQLite:
		planStore = weeklyplan.NewSQLiteStore(db)
	case planStoreFirestore:
		var client *firestore.Client
		if client, err = firestore.NewClient(ctx, cfg.FirestoreProject); err != nil {
			return errors.Wrap(err, "create firestore client", slog.String("project", cfg.FirestoreProject))
		}
		defer client.Close()
		planStore = weeklyplan.NewFirestoreStore(client)
	default:
		return errors.New("unknown plan store", slog.String("plan_store", cfg.PlanStore))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "selected weekly plan store", slog.String("plan_store", cfg.PlanStore))

	var generator weeklyplan.Generator
	if cfg.OpenAIAPIKey != "" {
		generator = weeklyplan.NewOpenAIGenerator(weeklyplan.OpenAIConfig{
			APIKey:   cfg.OpenAIAPIKey,
			Model:    cfg.OpenAIModel,
			BaseURL:  cfg.OpenAIBaseURL,
			Timeout:  cfg.GenerationTimeout,
			Attempts: cfg.GenerationAttempts,
			Backoff:  cfg.GenerationBackoff,
		}, logger)
	} else {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY not set, weekly plan generation is disabled")
	}

	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger: logger, MinAge: 0, MaxBytes: 0, Cooldown: 0, TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	lib := library.Default()
	docs := docstore.New(db, logger)
	app := application{
		logger:            logger,
		library:           lib,
		plans:             plan.NewService(docs, lib, logger),
		profiles:          profile.NewService(docs, logger),
		progress:          progress.NewService(docs, logger),
		weeklyPlans:       weeklyplan.NewService(planStore, generator, logger),
		cors:              newCORS(cfg.CORSOrigins),
		flightRecorder:    recorder,
		requestTimeout:    cfg.RequestTimeout,
		generationTimeout: cfg.generationDeadline(),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func newCORS(origins string) *cors.Cors {
	var allowed []string
	for origin := range strings.SplitSeq(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}
	return cors.New(cors.Options{ //nolint:exhaustruct // defaults for the rest.
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
}

func main() {
	ctx := context.Background()
	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load()
	format := logging.Format(os.Getenv("COACH_LOG_FORMAT"))
	logger := slog.New(logging.NewHandler(os.Stdout, format, logging.ParseLevel(os.Getenv("COACH_LOG_LEVEL")), nil))
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
