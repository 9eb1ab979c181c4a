package services

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// Environment variables that override saved settings.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvLLMProvider = "DOCUHUB_LLM_PROVIDER"
	EnvLLMModel    = "DOCUHUB_LLM_MODEL"
	EnvLLMBaseURL  = "DOCUHUB_LLM_BASE_URL"
	EnvLLMAPIKey   = "DOCUHUB_LLM_API_KEY"
	EnvTopK        = "DOCUHUB_TOP_K"

	// EnvAPIKey is a bare Gemini credential. It selects the gemini provider
	// when no provider is configured.
	EnvAPIKey = "API_KEY"
)

// defaultOllamaURL is where a local provider is expected unless told otherwise.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService layers defaults, saved settings and environment overrides.
type SettingsService struct {
	store     driven.SettingsStore
	prober    driven.LLMProber
	lookupEnv func(string) (string, bool)
}

// NewSettingsService creates a settings service. prober may be nil, in which
// case ProbeLLM always succeeds.
func NewSettingsService(store driven.SettingsStore, prober driven.LLMProber) *SettingsService {
	return &SettingsService{
		store:     store,
		prober:    prober,
		lookupEnv: os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Passing nil disables overrides.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	s.lookupEnv = lookup
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings, err := s.saved()
	if err != nil {
		return nil, err
	}
	s.overlayEnv(settings)
	return settings, nil
}

// saved returns stored settings with defaults filled in, without the
// environment. Anything written back starts from here.
func (s *SettingsService) saved() (*domain.AppSettings, error) {
	stored, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings from %s: %w", s.store.Location(), err)
	}
	if stored == nil {
		stored = &domain.AppSettings{}
	}

	settings := domain.DefaultAppSettings()
	llm := stored.LLM
	if llm.Provider.IsValid() {
		settings.LLM.Provider = llm.Provider
	}
	if llm.Model != "" {
		settings.LLM.Model = llm.Model
	}
	if llm.TimeoutSeconds > 0 {
		settings.LLM.TimeoutSeconds = llm.TimeoutSeconds
	}
	settings.LLM.BaseURL = llm.BaseURL
	settings.LLM.APIKey = llm.APIKey
	settings.LLM.RequestsPerSecond = llm.RequestsPerSecond
	if stored.Retrieval.TopK != 0 {
		settings.Retrieval.TopK = stored.Retrieval.TopK
	}
	return &settings, nil
}

func (s *SettingsService) overlayEnv(settings *domain.AppSettings) {
	llm := &settings.LLM
	if v := s.env(EnvLLMProvider); v != "" {
		if p, err := domain.ParseAIProvider(v); err == nil {
			llm.Provider = p
		}
	}
	if v := s.env(EnvLLMModel); v != "" {
		llm.Model = v
	}
	if v := s.env(EnvLLMBaseURL); v != "" {
		llm.BaseURL = v
	}
	if v := s.env(EnvLLMAPIKey); v != "" {
		llm.APIKey = v
	}
	if v := s.env(EnvAPIKey); v != "" && llm.APIKey == "" {
		if llm.Provider == "" {
			llm.Provider = domain.AIProviderGemini
		}
		if llm.Provider == domain.AIProviderGemini {
			llm.APIKey = v
		}
	}
	if k, err := strconv.Atoi(s.env(EnvTopK)); err == nil && k > 0 {
		settings.Retrieval.TopK = k
	}
}

func (s *SettingsService) env(key string) string {
	if s.lookupEnv == nil {
		return ""
	}
	v, _ := s.lookupEnv(key)
	return v
}

// Save writes settings. An empty API key keeps the saved one.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	next := *settings
	if next.LLM.APIKey == "" {
		current, err := s.store.Load()
		if err != nil {
			return fmt.Errorf("load settings from %s: %w", s.store.Location(), err)
		}
		if current != nil {
			next.LLM.APIKey = current.LLM.APIKey
		}
	}
	if err := s.store.Save(&next); err != nil {
		return fmt.Errorf("save settings to %s: %w", s.store.Location(), err)
	}
	return nil
}

// SetLLMProvider switches provider. Local providers keep or default their
// base URL; cloud providers use the vendor endpoint.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: %s needs an API key", domain.ErrInvalidInput, provider)
	}

	settings, err := s.saved()
	if err != nil {
		return err
	}
	llm := &settings.LLM
	llm.Provider = provider
	llm.Model = model
	if model == "" {
		llm.Model = domain.DefaultLLMModels()[provider]
	}
	switch {
	case !provider.IsLocal():
		llm.BaseURL = ""
	case llm.BaseURL == "":
		llm.BaseURL = defaultOllamaURL
	}
	llm.APIKey = apiKey

	return s.Save(settings)
}

// SetTopK changes how many documents a search returns.
func (s *SettingsService) SetTopK(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	settings, err := s.saved()
	if err != nil {
		return err
	}
	settings.Retrieval.TopK = k
	return s.Save(settings)
}

// Validate checks the effective settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	llm := settings.LLM
	switch {
	case settings.Retrieval.TopK <= 0:
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidInput)
	case llm.Provider != "" && !llm.Provider.IsValid():
		return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, llm.Provider)
	case llm.Provider.RequiresAPIKey() && llm.APIKey == "":
		return fmt.Errorf("%w: LLM provider %s needs an API key", domain.ErrInvalidInput, llm.Provider)
	case llm.RequestsPerSecond < 0:
		return fmt.Errorf("%w: llm.requests_per_second must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Defaults returns the built-in settings.
func (s *SettingsService) Defaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ProbeLLM checks the effective provider answers.
func (s *SettingsService) ProbeLLM(ctx context.Context) error {
	if s.prober == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.prober.Probe(ctx, settings.LLM)
}
