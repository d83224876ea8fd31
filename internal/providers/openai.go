package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const OpenAIClientName = "openai"

// OpenAIConfig holds configuration for the OpenAI-compatible client. Any
// endpoint speaking the chat-completions protocol works through BaseURL.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string        // Optional, for compatible providers and tests
	RPM        int           // Requests per minute (default 60)
	MaxRetries int           // Attempts per call (default 3)
	RetryDelay time.Duration // Base backoff delay (default 1s, grows linearly)
	Timeout    time.Duration // Per-call timeout (default 120s)
	HTTPClient *http.Client  // Optional (tests)

	// USD per 1M tokens; zero disables cost accounting.
	PromptCostPer1M     float64
	CompletionCostPer1M float64
}

// OpenAIClient implements CompletionClient over the official OpenAI SDK.
type OpenAIClient struct {
	cfg     OpenAIConfig
	client  openai.Client
	limiter *RateLimiter
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.RPM <= 0 {
		cfg.RPM = 60
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// The SDK's own retry layer is disabled; retries are handled here
		// so attempts and backoff stay observable.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		cfg:     cfg,
		client:  openai.NewClient(opts...),
		limiter: NewRateLimiter(cfg.RPM),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIClientName
}

// Complete sends one completion request with rate limiting, per-attempt
// timeouts, and linear-backoff retries.
func (c *OpenAIClient) Complete(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	result := &ChatResult{
		Provider:  OpenAIClientName,
		RequestID: req.RequestID,
	}
	if result.RequestID == "" {
		result.RequestID = uuid.NewString()
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	result.ModelUsed = model

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.cfg.Timeout
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toParamMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	base := c.cfg.RetryDelay
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			result.Attempts++

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			resp, err := c.client.Chat.Completions.New(callCtx, params)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			result.Content = resp.Choices[0].Message.Content
			result.PromptTokens = int(resp.Usage.PromptTokens)
			result.CompletionTokens = int(resp.Usage.CompletionTokens)
			result.TotalTokens = int(resp.Usage.TotalTokens)
			if resp.Model != "" {
				result.ModelUsed = resp.Model
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.cfg.MaxRetries)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * base
		}),
		retry.LastErrorOnly(true),
	)

	result.TotalTime = time.Since(start)
	if err != nil {
		result.Success = false
		result.ErrorType = "completion_error"
		result.ErrorMessage = err.Error()
		return result, fmt.Errorf("openai completion: %w", err)
	}

	result.Success = true
	result.CostUSD = c.cost(result.PromptTokens, result.CompletionTokens)
	return result, nil
}

func (c *OpenAIClient) cost(promptTokens, completionTokens int) float64 {
	const perMillion = 1_000_000.0
	return float64(promptTokens)/perMillion*c.cfg.PromptCostPer1M +
		float64(completionTokens)/perMillion*c.cfg.CompletionCostPer1M
}

func toParamMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
