package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("try consume drains the bucket", func(t *testing.T) {
		r := NewRateLimiter(2)
		if !r.TryConsume() || !r.TryConsume() {
			t.Fatal("fresh limiter should hand out its full bucket")
		}
		if r.TryConsume() {
			t.Fatal("drained limiter handed out an extra token")
		}
		if r.Consumed() != 2 {
			t.Fatalf("Consumed() = %d, want 2", r.Consumed())
		}
	})

	t.Run("wait honors context cancellation", func(t *testing.T) {
		r := NewRateLimiter(1)
		r.TryConsume()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := r.Wait(ctx); err == nil {
			t.Fatal("Wait on a drained limiter should fail when context expires")
		}
	})

	t.Run("wait succeeds when a token is available", func(t *testing.T) {
		r := NewRateLimiter(60)
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	})
}

func TestMockClient(t *testing.T) {
	t.Run("returns configured response", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = `{"questions": [{"sequenceNumber": 1}]}`
		res, err := c.Complete(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "extract"}},
		})
		if err != nil {
			t.Fatalf("Complete() = %v", err)
		}
		if !res.Success || res.Content != c.ResponseText {
			t.Fatalf("result = %+v", res)
		}
		if c.Requests() != 1 {
			t.Errorf("Requests() = %d, want 1", c.Requests())
		}
	})

	t.Run("fail first n requests", func(t *testing.T) {
		c := NewMockClient()
		c.FailFirst = 1
		if _, err := c.Complete(context.Background(), &ChatRequest{}); err == nil {
			t.Fatal("first request should fail")
		}
		if _, err := c.Complete(context.Background(), &ChatRequest{}); err != nil {
			t.Fatalf("second request failed: %v", err)
		}
	})

	t.Run("response func overrides static text", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseFunc = func(req *ChatRequest) string {
			return "echo: " + req.Messages[0].Content
		}
		res, err := c.Complete(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.Content != "echo: hi" {
			t.Fatalf("Content = %q", res.Content)
		}
	})
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":     "cmpl-test",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 5,
			"total_tokens":      17,
		},
	}
}

func TestOpenAIClient(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(completionBody(`{"questions": []}`))
		}))
		defer srv.Close()

		c := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			Model:   "test-model",
			BaseURL: srv.URL,
			RPM:     6000,
		})
		res, err := c.Complete(context.Background(), &ChatRequest{
			Messages: []Message{
				{Role: "system", Content: "you extract questions"},
				{Role: "user", Content: "fragment text"},
			},
		})
		if err != nil {
			t.Fatalf("Complete() = %v", err)
		}
		if !res.Success {
			t.Fatalf("result not successful: %+v", res)
		}
		if res.Content != `{"questions": []}` {
			t.Errorf("Content = %q", res.Content)
		}
		if res.PromptTokens != 12 || res.CompletionTokens != 5 || res.TotalTokens != 17 {
			t.Errorf("usage = %d/%d/%d", res.PromptTokens, res.CompletionTokens, res.TotalTokens)
		}
		if res.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", res.Attempts)
		}
	})

	t.Run("retries then reports failure", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, `{"error": {"message": "upstream unavailable"}}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewOpenAIClient(OpenAIConfig{
			APIKey:     "test-key",
			Model:      "test-model",
			BaseURL:    srv.URL,
			RPM:        6000,
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
		})
		res, err := c.Complete(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "fragment"}},
		})
		if err == nil {
			t.Fatal("expected error from failing endpoint")
		}
		if res.Success {
			t.Fatal("result marked successful despite failure")
		}
		if res.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", res.Attempts)
		}
		if calls != 3 {
			t.Errorf("server saw %d calls, want 3", calls)
		}
	})

	t.Run("cost accounting", func(t *testing.T) {
		c := NewOpenAIClient(OpenAIConfig{
			APIKey:              "k",
			Model:               "m",
			PromptCostPer1M:     1.0,
			CompletionCostPer1M: 2.0,
		})
		got := c.cost(1_000_000, 500_000)
		if got != 2.0 {
			t.Fatalf("cost = %f, want 2.0", got)
		}
	})
}
