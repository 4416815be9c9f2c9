package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/myrjola/fitcoach/internal/e2etest"
	"github.com/myrjola/fitcoach/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "COACH_SQLITE_URL":
		return ":memory:", true
	case "COACH_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

// lookupEnvWithOpenAI configures plan generation against baseURL.
func lookupEnvWithOpenAI(baseURL string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "OPENAI_API_KEY":
			return "test-key", true
		case "OPENAI_BASE_URL":
			return baseURL, true
		case "COACH_GENERATION_BACKOFF":
			return "1ms", true
		default:
			return testLookupEnv(key)
		}
	}
}

func startServer(t *testing.T, lookupEnv func(string) (string, bool)) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), lookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends body as is and returns the raw response.
func do(t *testing.T, server *e2etest.Server, method, path, body string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, server.URL()+path, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	return response{status: resp.StatusCode, header: resp.Header, body: data}
}

// errorMessage decodes the error field of a JSON error response.
func errorMessage(t *testing.T, r response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &body); err != nil {
		t.Fatalf("Failed to decode error response %q: %v", r.body, err)
	}
	return body.Error
}

func Test_application_healthy(t *testing.T) {
	server := startServer(t, testLookupEnv)

	got := do(t, server, http.MethodGet, "/api/healthy", "")
	if got.status != http.StatusOK || string(got.body) != `{"status":"ok"}` {
		t.Errorf("healthy = %d %s", got.status, got.body)
	}
	if got.header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func Test_application_cors(t *testing.T) {
	server := startServer(t, testLookupEnv)

	// Browsers send the requested headers lowercased.
	tests := []struct {
		name         string
		method       string
		headers      string
		allowOrigin  string
		allowHeaders string
	}{
		{
			name:         "json post",
			method:       http.MethodPost,
			headers:      "content-type",
			allowOrigin:  "*",
			allowHeaders: "content-type",
		},
		{
			name:         "plan delete",
			method:       http.MethodDelete,
			headers:      "",
			allowOrigin:  "*",
			allowHeaders: "",
		},
		{
			name:         "unlisted header",
			method:       http.MethodPost,
			headers:      "x-debug-token",
			allowOrigin:  "",
			allowHeaders: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions,
				server.URL()+"/generate-weekly-plan", nil)
			if err != nil {
				t.Fatalf("Failed to create request: %v", err)
			}
			req.Header.Set("Origin", "http://localhost:8081")
			req.Header.Set("Access-Control-Request-Method", tt.method)
			if tt.headers != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.headers)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("preflight: %v", err)
			}
			_ = resp.Body.Close()

			if resp.StatusCode >= http.StatusBadRequest {
				t.Errorf("preflight status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.allowOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.allowOrigin)
			}
			if got := resp.Header.Get("Access-Control-Allow-Headers"); got != tt.allowHeaders {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", got, tt.allowHeaders)
			}
		})
	}
}

func Test_application_notFound(t *testing.T) {
	server := startServer(t, testLookupEnv)

	got := do(t, server, http.MethodGet, "/no-such-route", "")
	if got.status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", got.status)
	}
	if msg := errorMessage(t, got); msg == "" {
		t.Error("empty error message")
	}
}

func Test_application_smokeScenario(t *testing.T) {
	server := startServer(t, testLookupEnv)

	if err := e2etest.SmokeScenario(t.Context(), server.Client(), e2etest.NewUserID()); err != nil {
		t.Errorf("SmokeScenario: %v", err)
	}
}
