package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a CompletionClient for testing.
type MockClient struct {
	Latency      time.Duration
	ShouldFail   bool
	FailFirst    int // Fail the first N requests (0 = never)
	ResponseText string

	// ResponseFunc, when set, overrides ResponseText per request.
	ResponseFunc func(req *ChatRequest) string

	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"questions": []}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Requests returns how many calls the mock has received.
func (c *MockClient) Requests() int {
	return int(c.requestCount.Load())
}

// Complete answers with the configured response.
func (c *MockClient) Complete(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if c.ShouldFail || int(count) <= c.FailFirst {
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		result.TotalTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.ErrorType = "context_cancelled"
			result.ErrorMessage = ctx.Err().Error()
			result.TotalTime = time.Since(start)
			return result, ctx.Err()
		}
	}

	result.Success = true
	result.Content = c.ResponseText
	if c.ResponseFunc != nil {
		result.Content = c.ResponseFunc(req)
	}

	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(m.Content) / 4
	}
	result.PromptTokens = promptTokens
	result.CompletionTokens = len(result.Content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.TotalTime = time.Since(start)
	return result, nil
}
