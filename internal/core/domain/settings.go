package domain

import (
	"fmt"
	"strings"
	"time"
)

// AIProvider names a language model vendor.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderGemini    AIProvider = "gemini"
)

type providerInfo struct {
	label        string
	defaultModel string
	local        bool
}

// providerOrder is the order providers are offered in.
var providerOrder = []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama:    {label: "Ollama", defaultModel: "llama3.2", local: true},
	AIProviderOpenAI:    {label: "OpenAI", defaultModel: "gpt-4o-mini"},
	AIProviderAnthropic: {label: "Anthropic", defaultModel: "claude-3-5-sonnet-latest"},
	AIProviderGemini:    {label: "Google Gemini", defaultModel: "gemini-2.5-flash"},
}

// ParseAIProvider accepts a provider name in any case.
func ParseAIProvider(s string) (AIProvider, error) {
	p := AIProvider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown LLM provider %q", ErrInvalidInput, s)
	}
	return p, nil
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey is true for every hosted provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := providers[p]
	return ok && !info.local
}

func (p AIProvider) IsLocal() bool {
	return providers[p].local
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is the label shown in menus, e.g. "Ollama (local)".
func (p AIProvider) Description() string {
	info, ok := providers[p]
	switch {
	case !ok:
		return "Unknown"
	case info.local:
		return info.label + " (local)"
	default:
		return info.label + " (cloud)"
	}
}

// LLMSettings configures the language model used for answers and summaries.
type LLMSettings struct {
	Provider AIProvider
	Model    string

	// BaseURL overrides the provider endpoint.
	BaseURL string
	APIKey  string

	TimeoutSeconds int

	// RequestsPerSecond caps outgoing model calls; zero is unlimited.
	RequestsPerSecond float64
}

// IsConfigured reports whether a model can be called with these settings.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (l.APIKey != "" || !l.Provider.RequiresAPIKey())
}

// Timeout bounds one model call.
func (l LLMSettings) Timeout() time.Duration {
	if l.TimeoutSeconds > 0 {
		return time.Duration(l.TimeoutSeconds) * time.Second
	}
	return DefaultLLMTimeout
}

func (l LLMSettings) ModelOrDefault() string {
	if l.Model == "" {
		return providers[l.Provider].defaultModel
	}
	return l.Model
}

type RetrievalSettings struct {
	// TopK caps the ranked documents a search returns.
	TopK int
}

// AppSettings is everything a user can configure.
type AppSettings struct {
	LLM       LLMSettings
	Retrieval RetrievalSettings
}

// DefaultLLMTimeout applies when no timeout is configured.
const DefaultLLMTimeout = 30 * time.Second

// DefaultAppSettings leaves the model unset, so answers degrade until a
// provider is chosen.
func DefaultAppSettings() AppSettings {
	var s AppSettings
	s.LLM.TimeoutSeconds = int(DefaultLLMTimeout.Seconds())
	s.Retrieval.TopK = DefaultTopK
	return s
}

// AllLLMProviders lists providers in menu order.
func AllLLMProviders() []AIProvider {
	return append([]AIProvider(nil), providerOrder...)
}

// DefaultLLMModels maps each provider to the model used when none is set.
func DefaultLLMModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		models[p] = info.defaultModel
	}
	return models
}
