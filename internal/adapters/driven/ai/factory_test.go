package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	assert.NotPanics(t, func() { (&InitResult{}).Close() })
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		wantErr  bool
		model    string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name:     "cloud provider without key returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini},
			wantNil:  true,
		},
		{
			name:     "ollama provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "mistral"},
			model:    "mistral",
		},
		{
			name:     "openai provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			model:    "gpt-4o-mini",
		},
		{
			name:     "anthropic provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			model:    "claude-3-5-sonnet-latest",
		},
		{
			name:     "gemini provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
			model:    "gemini-2.5-flash",
		},
		{
			name:     "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "k"},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := Build(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestBuild_RateLimited(t *testing.T) {
	svc, err := Build(&domain.LLMSettings{
		Provider:          domain.AIProviderOllama,
		RequestsPerSecond: 1.5,
	})
	require.NoError(t, err)
	_, ok := svc.(*ratelimit.LLMService)
	assert.True(t, ok)
}

func TestConnect(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"models": []}`))
		}))
		defer server.Close()

		svc, err := Connect(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc, err := Connect(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
		assert.Nil(t, svc)
	})
}

func TestInitialise(t *testing.T) {
	t.Run("unconfigured falls back", func(t *testing.T) {
		result := Initialise(context.Background(), &domain.LLMSettings{}, false)
		assert.True(t, result.FellBack)
		assert.Nil(t, result.LLMService)
		require.Len(t, result.Warnings, 1)
	})

	t.Run("configured without validation", func(t *testing.T) {
		result := Initialise(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"}, false)
		defer result.Close()
		assert.False(t, result.FellBack)
		assert.NotNil(t, result.LLMService)
		assert.Empty(t, result.Warnings)
	})

	t.Run("failed validation falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		result := Initialise(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderGemini,
			APIKey:   "bad",
			BaseURL:  server.URL,
		}, true)
		assert.True(t, result.FellBack)
		assert.Nil(t, result.LLMService)
		assert.NotEmpty(t, result.Warnings)
	})
}

func TestProber(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer failing.Close()

	ctx := context.Background()
	var prober Prober

	assert.NoError(t, prober.Probe(ctx, domain.LLMSettings{}), "nothing configured, nothing to check")
	assert.NoError(t, prober.Probe(ctx, domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: ok.URL}))
	assert.Error(t, prober.Probe(ctx, domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "bad",
		BaseURL:  failing.URL,
	}))
}

func TestProber_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Prober{}.Probe(ctx, domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})
	assert.Error(t, err)
}
