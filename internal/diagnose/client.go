// Package diagnose sends an annotated submission to the model and returns
// the raw completion text.
package diagnose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agusespa/javatutor/internal/annotate"
	"github.com/agusespa/javatutor/internal/llm"
	"github.com/agusespa/javatutor/internal/prompts"
	"github.com/agusespa/javatutor/internal/retry"
	"github.com/agusespa/javatutor/internal/types"
)

const DefaultMaxAttempts = 3

// OverloadedMessage is shown to the user when every attempt hit an overload.
const OverloadedMessage = "引擎繁忙，请稍后再试！"

var (
	ErrEmptySource      = errors.New("empty submission")
	ErrEngineOverloaded = errors.New("engine overloaded")
)

// EngineOverloadedError is returned when the backend stayed overloaded for
// every attempt. It matches ErrEngineOverloaded.
type EngineOverloadedError struct {
	Attempts int
	Last     error
}

func (e *EngineOverloadedError) Error() string {
	return fmt.Sprintf("%s (%d attempts, last error: %v)", OverloadedMessage, e.Attempts, e.Last)
}

func (e *EngineOverloadedError) Is(target error) bool {
	return target == ErrEngineOverloaded
}

func (e *EngineOverloadedError) Unwrap() error {
	return e.Last
}

// ServiceError is any non-overload failure of the backend call.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("diagnostic service failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// RetryNotice describes one backoff before the next attempt.
type RetryNotice struct {
	Attempt     int
	MaxAttempts int
	Wait        time.Duration
	Err         error
}

func (n RetryNotice) Message() string {
	return fmt.Sprintf("引擎过载，%.1f 秒后重试（%d/%d）...", n.Wait.Seconds(), n.Attempt, n.MaxAttempts)
}

type Client struct {
	provider    llm.Provider
	prompt      types.PromptVariant
	maxAttempts int
	backoff     retry.BackoffFunc
	sleep       retry.SleepFunc
	onRetry     func(RetryNotice)
	logger      *zap.Logger
}

type Option func(*Client)

func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

func WithBackoff(b retry.BackoffFunc) Option {
	return func(c *Client) { c.backoff = b }
}

func WithSleep(s retry.SleepFunc) Option {
	return func(c *Client) { c.sleep = s }
}

func WithOnRetry(fn func(RetryNotice)) Option {
	return func(c *Client) { c.onRetry = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithPrompt replaces the variant's default prompt.
func WithPrompt(p types.PromptVariant) Option {
	return func(c *Client) { c.prompt = p }
}

func NewClient(provider llm.Provider, variant types.Variant, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		prompt:      prompts.DefaultPrompt(variant),
		maxAttempts: DefaultMaxAttempts,
		backoff:     retry.ExponentialJitter(nil),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Variant() types.Variant {
	return c.prompt.Variant
}

func (c *Client) Prompt() types.PromptVariant {
	return c.prompt
}

func (c *Client) Model() string {
	return c.provider.GetModel()
}

// SetOnRetry replaces the retry hook. It must not be called while a
// Diagnose call is running.
func (c *Client) SetOnRetry(fn func(RetryNotice)) {
	c.onRetry = fn
}

// Diagnose asks the model to review the line-annotated submission and
// returns the completion text unparsed.
func (c *Client) Diagnose(ctx context.Context, annotated string) (string, error) {
	if strings.TrimSpace(annotate.Strip(annotated)) == "" {
		return "", ErrEmptySource
	}

	user, err := prompts.BuildUserPrompt(c.prompt.Name, annotated)
	if err != nil {
		return "", err
	}

	req := llm.Request{
		System:      c.prompt.System,
		User:        user,
		Temperature: c.prompt.Temperature,
		JSONMode:    true,
	}

	logger := c.logger.With(
		zap.String("variant", string(c.prompt.Variant)),
		zap.String("prompt", c.prompt.Name),
		zap.String("model", c.provider.GetModel()),
	)

	policy := retry.Policy{
		MaxAttempts: c.maxAttempts,
		Backoff:     c.backoff,
		Retryable:   llm.IsOverloaded,
		Sleep:       c.sleep,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			logger.Warn("engine overloaded, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxAttempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if c.onRetry != nil {
				c.onRetry(RetryNotice{Attempt: attempt, MaxAttempts: c.maxAttempts, Wait: wait, Err: err})
			}
		},
	}

	raw, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (string, error) {
		logger.Debug("sending diagnostic request", zap.Int("attempt", attempt))
		return c.provider.Complete(ctx, req)
	})
	if err == nil {
		logger.Debug("diagnostic response received", zap.Int("bytes", len(raw)))
		return raw, nil
	}

	var exhausted *retry.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		logger.Error("engine overloaded, giving up", zap.Int("attempts", exhausted.Attempts))
		return "", &EngineOverloadedError{Attempts: exhausted.Attempts, Last: exhausted.Last}
	case ctx.Err() != nil:
		return "", ctx.Err()
	default:
		logger.Error("diagnostic request failed", zap.Error(err))
		return "", &ServiceError{Err: err}
	}
}
