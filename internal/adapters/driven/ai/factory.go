// Package ai builds the configured language model client.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// probeTimeout caps a connectivity check when the caller sets no deadline.
const probeTimeout = 5 * time.Second

const fixHint = "Run 'docuhub settings llm' to fix"

type constructor func(s *domain.LLMSettings) (driven.LLMService, error)

var constructors = map[domain.AIProvider]constructor{
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollama.NewLLMService(ollama.LLMConfig{BaseURL: s.BaseURL, Model: s.Model, Timeout: s.Timeout()}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return openai.NewLLMService(openai.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model, Timeout: s.Timeout()})
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return anthropic.NewLLMService(anthropic.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model, Timeout: s.Timeout()})
	},
	domain.AIProviderGemini: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return gemini.NewLLMService(gemini.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model, Timeout: s.Timeout()})
	},
}

// Build returns the client for settings, rate limited when a request rate
// is set. Unconfigured settings yield a nil service and no error.
func Build(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	build, ok := constructors[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	svc, err := build(settings)
	if err != nil {
		return nil, err
	}
	if settings.RequestsPerSecond > 0 {
		svc = ratelimit.Wrap(svc, ratelimit.Config{RequestsPerSecond: settings.RequestsPerSecond})
	}
	return svc, nil
}

// Connect builds the client and pings it. Errors wrap
// domain.ErrServiceUnavailable.
func Connect(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := Build(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrServiceUnavailable, err, fixHint)
	}
	if svc == nil {
		return nil, nil
	}
	if err := ping(ctx, svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). %s",
			domain.ErrServiceUnavailable, settings.Provider, err, fixHint)
	}
	return svc, nil
}

func ping(ctx context.Context, svc driven.LLMService) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, probeTimeout)
		defer cancel()
	}
	return svc.Ping(ctx)
}

// InitResult is the model client chosen at startup.
type InitResult struct {
	LLMService driven.LLMService

	// Warnings explain why no client is available.
	Warnings []string

	// FellBack is set when answers and summaries will degrade.
	FellBack bool
}

// Close releases the client, if any.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise picks the startup client. With probe set the provider is
// pinged first. Nothing here aborts startup: failures leave LLMService nil
// and add a warning.
func Initialise(ctx context.Context, settings *domain.LLMSettings, probe bool) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.IsConfigured() {
		result.FellBack = true
		result.Warnings = append(result.Warnings,
			"No language model configured. Answers and summaries are unavailable. "+fixHint)
		return result
	}

	var (
		svc driven.LLMService
		err error
	)
	if probe {
		svc, err = Connect(ctx, settings)
	} else {
		svc, err = Build(settings)
	}
	if err != nil {
		result.FellBack = true
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}
	logger.Debug("LLM: %s (%s)", settings.Provider, svc.ModelName())
	result.LLMService = svc
	return result
}

// Prober implements driven.LLMProber with a throwaway client.
type Prober struct{}

var _ driven.LLMProber = Prober{}

// Probe builds a client for settings, pings it and closes it. Unconfigured
// settings have nothing to check.
func (Prober) Probe(ctx context.Context, settings domain.LLMSettings) error {
	svc, err := Build(&settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(ctx, svc)
}
