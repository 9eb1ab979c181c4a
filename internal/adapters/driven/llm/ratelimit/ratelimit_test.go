package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

type stubLLM struct {
	calls  int
	err    error
	closed bool
}

func (s *stubLLM) GenerateStructured(context.Context, string, driven.ResponseSchema) (string, error) {
	s.calls++
	return `{"answer":"ok"}`, s.err
}
func (s *stubLLM) ModelName() string { return "stub" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error {
	s.closed = true
	return nil
}

func TestWrap_Defaults(t *testing.T) {
	svc := Wrap(&stubLLM{}, Config{})
	assert.InDelta(t, DefaultRequestsPerSecond, float64(svc.limiter.Limit()), 0.0001)
	assert.Equal(t, DefaultBurstSize, svc.limiter.Burst())
	assert.Equal(t, DefaultBackoff, svc.backoff)
}

func TestGenerateStructured_Delegates(t *testing.T) {
	stub := &stubLLM{}
	svc := Wrap(stub, Config{RequestsPerSecond: 100, BurstSize: 10})

	out, err := svc.GenerateStructured(context.Background(), "p", driven.ResponseSchema{})
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"ok"}`, out)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "stub", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	require.NoError(t, svc.Close())
	assert.True(t, stub.closed)
	assert.Same(t, stub, svc.Unwrap())
}

func TestGenerateStructured_WaitHonoursContext(t *testing.T) {
	stub := &stubLLM{}
	svc := Wrap(stub, Config{RequestsPerSecond: 0.001, BurstSize: 1})

	_, err := svc.GenerateStructured(context.Background(), "p", driven.ResponseSchema{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.GenerateStructured(ctx, "p", driven.ResponseSchema{})
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateStructured_BacksOffAfter429(t *testing.T) {
	stub := &stubLLM{err: errors.New("gemini error (status 429): quota")}
	svc := Wrap(stub, Config{RequestsPerSecond: 100, BurstSize: 10, Backoff: time.Hour})

	_, err := svc.GenerateStructured(context.Background(), "p", driven.ResponseSchema{})
	require.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.GenerateStructured(ctx, "p", driven.ResponseSchema{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, stub.calls)
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("status 500")))
	assert.True(t, IsRateLimited(errors.New("anthropic error (status 429): slow down")))
	assert.True(t, IsRateLimited(errors.New("error, status code: 429, message: rate")))
	assert.True(t, IsRateLimited(errors.New("RESOURCE_EXHAUSTED")))
}
