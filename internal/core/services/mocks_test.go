package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	// block makes GenerateStructured wait for context cancellation.
	block   bool
	started chan struct{}
	prompts []string
	schemas []driven.ResponseSchema
}

func (m *mockLLMService) GenerateStructured(
	ctx context.Context, prompt string, schema driven.ResponseSchema,
) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.schemas = append(m.schemas, schema)
	started := m.started
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockExtractorRegistry implements driven.ExtractorRegistry for testing.
type mockExtractorRegistry struct {
	result *driven.ExtractResult
	err    error
}

func (m *mockExtractorRegistry) Extract(_ context.Context, _ string, _ []byte) (*driven.ExtractResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockExtractorRegistry) Register(_ driven.TextExtractor) {}

func (m *mockExtractorRegistry) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockProber implements driven.LLMProber for testing.
type mockProber struct {
	err    error
	probed *domain.LLMSettings
}

func (m *mockProber) Probe(_ context.Context, settings domain.LLMSettings) error {
	m.probed = &settings
	return m.err
}
