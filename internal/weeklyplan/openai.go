package weeklyplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig configures the chat completions client.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Attempts is the total number of tries, so 2 means one retry.
	Attempts int
	// Backoff is multiplied by the attempt number before the next try.
	Backoff time.Duration
}

// OpenAIGenerator requests plans as schema-enforced structured output.
type OpenAIGenerator struct {
	client   openai.Client
	model    string
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// NewOpenAIGenerator creates a generator. The SDK's own retries are disabled in favour of the retry policy of
// Generate.
func NewOpenAIGenerator(cfg OpenAIConfig, logger *slog.Logger) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIGenerator{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		attempts: max(1, cfg.Attempts),
		backoff:  cfg.Backoff,
		logger:   logger,
	}
}

// Generate asks the model for a plan of in.Days days. Failed attempts are retried when the failure may be
// transient: transport errors, rate limiting, provider errors and output that failed validation. Days that break
// the exercise count policy are logged but accepted.
func (g *OpenAIGenerator) Generate(ctx context.Context, in GenerationInput) (Plan, error) {
	var err error
	for attempt := 1; ; attempt++ {
		var p Plan
		start := time.Now()
		if p, err = g.attempt(ctx, in); err == nil {
			g.logger.LogAttrs(ctx, slog.LevelInfo, "generated weekly plan",
				slog.Int("days", in.Days), slog.Int("attempt", attempt), slog.Duration("duration", time.Since(start)))
			for _, v := range CheckPolicy(p) {
				g.logger.LogAttrs(ctx, slog.LevelWarn, "generated day breaks exercise count policy",
					slog.String("violation", v.String()))
			}
			return p, nil
		}
		if attempt >= g.attempts || !g.retryable(ctx, err) {
			return Plan{}, err
		}
		wait := g.backoff * time.Duration(attempt)
		g.logger.LogAttrs(ctx, slog.LevelWarn, "retrying plan generation",
			slog.Int("attempt", attempt), slog.Duration("wait", wait), errors.SlogError(err))
		select {
		case <-ctx.Done():
			return Plan{}, fmt.Errorf("wait for retry: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (g *OpenAIGenerator) attempt(ctx context.Context, in GenerationInput) (Plan, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	userContent, err := json.Marshal(in.Inputs)
	if err != nil {
		return Plan{}, fmt.Errorf("marshal inputs: %w", err)
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(in.Days)),
			openai.UserMessage(string(userContent)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{ //nolint:exhaustruct // one variant.
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{ //nolint:exhaustruct // type has a default.
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{ //nolint:exhaustruct // no description.
					Name:   schemaName,
					Strict: openai.Bool(true),
					Schema: planJSONSchema{days: in.Days},
				},
			},
		},
	})
	if err != nil {
		return Plan{}, fmt.Errorf("create chat completion: %w: %w", ErrProviderFailed, err)
	}
	if len(completion.Choices) == 0 {
		return Plan{}, ErrEmptyCompletion
	}
	return ParsePlan(completion.Choices[0].Message.Content, in.Days)
}

// retryable reports whether err may succeed on another attempt. Cancellation of the caller's context and
// client errors other than rate limiting are final.
func (g *OpenAIGenerator) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
