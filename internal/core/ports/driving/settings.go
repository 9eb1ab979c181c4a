package driving

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// SettingsService reads and changes application settings. Values from the
// environment override saved ones on read and are never written back.
type SettingsService interface {
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error

	// SetLLMProvider switches provider. An empty model selects the
	// provider's default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error
	SetTopK(k int) error

	// Validate reports settings that cannot work, such as a cloud provider
	// without a key. No provider at all is valid.
	Validate() error
	Defaults() domain.AppSettings

	// ProbeLLM calls the configured provider once to confirm it answers.
	ProbeLLM(ctx context.Context) error
}
