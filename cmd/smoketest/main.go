package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fitcoach/internal/e2etest"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/planclient"
	"github.com/myrjola/fitcoach/internal/testhelpers"
)

const (
	readyTimeout    = 30 * time.Second
	scenarioTimeout = 10 * time.Second
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
		userID   = e2etest.NewUserID()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname), slog.String("user_id", userID))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := planclient.New(url, &http.Client{Timeout: scenarioTimeout}) //nolint:exhaustruct // defaults.
	if err := client.WaitForReady(ctx, "/api/healthy", readyTimeout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}

	scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()
	if err := e2etest.SmokeScenario(scenarioCtx, client, userID); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke scenario failed", errors.SlogError(err))
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called above.
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
}
