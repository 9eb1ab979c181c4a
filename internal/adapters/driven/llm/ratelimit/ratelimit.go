// Package ratelimit wraps an LLM service with a token bucket so bursts of
// searches and uploads stay under provider quotas.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default limits.
const (
	DefaultRequestsPerSecond = 2.0
	DefaultBurstSize         = 4
	DefaultBackoff           = 30 * time.Second
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff is how long to pause after the provider reports a 429.
	Backoff time.Duration
}

// LLMService limits calls to an underlying LLM service.
type LLMService struct {
	next    driven.LLMService
	limiter *rate.Limiter
	backoff time.Duration

	mu      sync.Mutex
	retryAt time.Time
}

// Wrap returns next limited by cfg. Zero fields take the defaults.
func Wrap(next driven.LLMService, cfg Config) *LLMService {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &LLMService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		backoff: cfg.Backoff,
	}
}

// Unwrap returns the underlying service.
func (s *LLMService) Unwrap() driven.LLMService {
	return s.next
}

// GenerateStructured waits for a token, then delegates.
func (s *LLMService) GenerateStructured(
	ctx context.Context,
	prompt string,
	schema driven.ResponseSchema,
) (string, error) {
	if err := s.Wait(ctx); err != nil {
		return "", err
	}
	out, err := s.next.GenerateStructured(ctx, prompt, schema)
	if err != nil && IsRateLimited(err) {
		s.recordRateLimit()
	}
	return out, err
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set after a 429 response.
func (s *LLMService) Wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

func (s *LLMService) recordRateLimit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = time.Now().Add(s.backoff)
	logger.Warn("Model provider rate limited requests, backing off for %s", s.backoff)
}

// ModelName returns the underlying model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping is not rate limited.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the underlying service.
func (s *LLMService) Close() error {
	return s.next.Close()
}

// IsRateLimited reports whether err carries an HTTP 429 from a provider.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "status code: 429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
