// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package genai wraps the OpenAI chat completion API for the travel
// assistant: bounded retries with per-attempt temperature variation, a
// per-call timeout, and structured-first reply parsing.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// MaxAttempts bounds generation retries per request.
	MaxAttempts = 3
	// BaseRetryDelay is the starting delay for exponential backoff.
	BaseRetryDelay = time.Second
	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 30 * time.Second
	// DefaultModel is used when the config does not name one.
	DefaultModel = openai.GPT4
	// DefaultTemperature is the first-attempt sampling temperature.
	DefaultTemperature = 0.7
	// DefaultMaxTokens bounds the completion length.
	DefaultMaxTokens = 800
)

// temperatureSteps shift the sampling temperature per retry attempt: warmer
// first, cooler last, to escape both repetitive and rambling failures.
var temperatureSteps = [MaxAttempts]float32{0, 0.2, -0.3}

// RetryableError represents a generation failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, e.Message)
}

// Options carry the per-request generation parameters.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// completionAPI is the slice of the go-openai client the generator needs.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is the production generator. Safe for concurrent use.
type Client struct {
	api       completionAPI
	logger    *zap.Logger
	baseDelay time.Duration
}

// NewClient creates a generation client from an API key.
func NewClient(apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if !strings.HasPrefix(apiKey, "sk-") {
		return nil, fmt.Errorf("invalid API key format")
	}
	return &Client{api: openai.NewClient(apiKey), logger: logger, baseDelay: BaseRetryDelay}, nil
}

// Generate runs the completion with up to MaxAttempts attempts. Each attempt
// uses a shifted temperature and its own timeout; retryable API errors back
// off exponentially or honor the server's retry-after. The raw assistant
// text is returned; parsing is the caller's concern.
func (c *Client) Generate(ctx context.Context, messages []openai.ChatCompletionMessage, opts Options) (string, error) {
	opts = opts.withDefaults()

	var lastErr error
	delay := c.baseDelay
	if delay <= 0 {
		delay = BaseRetryDelay
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying generation request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		content, err := c.complete(ctx, messages, opts, attempt)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Generation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return content, nil
		}
		lastErr = err

		retryErr, retryable := err.(*RetryableError)
		if !retryable {
			c.logger.Error("Non-retryable generation error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			return "", err
		}
		if retryErr.RetryAfter > 0 {
			delay = retryErr.RetryAfter
		} else {
			base := c.baseDelay
			if base <= 0 {
				base = BaseRetryDelay
			}
			delay = base * time.Duration(1<<uint(attempt))
		}
	}

	c.logger.Error("All generation attempts exhausted",
		zap.Int("max_attempts", MaxAttempts),
		zap.Error(lastErr),
	)
	return "", fmt.Errorf("exhausted all retry attempts: %w", lastErr)
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage, opts Options, attempt int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: attemptTemperature(opts.Temperature, attempt),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", c.handleAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		// An empty body is treated like a transient server fault.
		return "", &RetryableError{StatusCode: http.StatusOK, Message: "empty completion body"}
	}
	return resp.Choices[0].Message.Content, nil
}

func attemptTemperature(base float32, attempt int) float32 {
	t := base + temperatureSteps[attempt%MaxAttempts]
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// handleAPIError classifies API failures: rate limits and server errors are
// retryable, everything else is terminal.
func (c *Client) handleAPIError(err error) error {
	if apiErr, ok := err.(*openai.APIError); ok {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("invalid API key or unauthorized access: %w", err)
		case http.StatusTooManyRequests:
			retryAfter := BaseRetryDelay
			if apiErr.RetryAfter != nil {
				retryAfter = time.Duration(*apiErr.RetryAfter) * time.Second
			}
			return &RetryableError{
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
				RetryAfter: retryAfter,
			}
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &RetryableError{
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
			}
		default:
			return fmt.Errorf("OpenAI API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RetryableError{StatusCode: http.StatusGatewayTimeout, Message: "completion timed out"}
	}
	return fmt.Errorf("OpenAI client error: %w", err)
}
