package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeReply is one canned chat completions response. A zero Status means 200.
type FakeReply struct {
	Status  int
	Content string
}

// FakeChatCompletions is an OpenAI compatible chat completions endpoint serving canned replies in order. The last
// reply repeats once the others are used up.
type FakeChatCompletions struct {
	// BaseURL is passed to the client in place of the real API URL.
	BaseURL string

	mu       sync.Mutex
	replies  []FakeReply
	requests []map[string]any
}

// NewFakeChatCompletions starts a fake endpoint that is shut down when the test ends.
func NewFakeChatCompletions(t *testing.T, replies ...FakeReply) *FakeChatCompletions {
	t.Helper()
	f := &FakeChatCompletions{BaseURL: "", mu: sync.Mutex{}, replies: replies, requests: nil}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	f.BaseURL = srv.URL + "/v1/"
	return f
}

// SetReplies replaces the queued replies.
func (f *FakeChatCompletions) SetReplies(replies ...FakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = replies
}

// Requests returns the decoded request bodies received so far.
func (f *FakeChatCompletions) Requests() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.requests...)
}

func (f *FakeChatCompletions) next() FakeReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return FakeReply{Status: http.StatusInternalServerError, Content: ""}
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply
}

func (f *FakeChatCompletions) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &body)
	f.mu.Lock()
	f.requests = append(f.requests, body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"error":{"message":"unknown path","type":"invalid_request_error"}}`)
		return
	}

	reply := f.next()
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_, _ = fmt.Fprintf(w, `{"error":{"message":%q,"type":"server_error"}}`, http.StatusText(reply.Status))
		return
	}
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   body["model"],
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"logprobs":      nil,
			"message": map[string]any{
				"role":    "assistant",
				"content": reply.Content,
				"refusal": nil,
			},
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// PlanContent builds a valid model response with the given number of training days.
func PlanContent(days int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	type exercise struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Sets    int    `json:"sets"`
		Reps    *int   `json:"reps"`
		Seconds *int   `json:"seconds"`
	}
	type day struct {
		Day       string     `json:"day"`
		DayType   string     `json:"dayType"`
		Focus     string     `json:"focus"`
		Exercises []exercise `json:"exercises"`
	}
	reps, seconds := 10, 30
	plan := struct {
		Days []day `json:"days"`
	}{Days: make([]day, 0, days)}
	for i := range days {
		plan.Days = append(plan.Days, day{
			Day:     names[i%len(names)],
			DayType: "training",
			Focus:   "Full body",
			Exercises: []exercise{
				{Name: "Squat", Type: "reps", Sets: 3, Reps: &reps, Seconds: nil},
				{Name: "Push-up", Type: "reps", Sets: 3, Reps: &reps, Seconds: nil},
				{Name: "Plank", Type: "time", Sets: 3, Reps: nil, Seconds: &seconds},
				{Name: "Lunge", Type: "reps", Sets: 3, Reps: &reps, Seconds: nil},
			},
		})
	}
	data, err := json.Marshal(plan)
	if err != nil {
		panic(err)
	}
	return string(data)
}
