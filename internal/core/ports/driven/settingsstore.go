package driven

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// SettingsStore persists application settings as a whole.
type SettingsStore interface {
	// Load returns what was last saved. Fields never saved are zero, and a
	// store that has never been written returns empty settings.
	Load() (*domain.AppSettings, error)

	// Save replaces the stored settings.
	Save(settings *domain.AppSettings) error

	// Location describes where settings are kept, for display.
	Location() string
}

// LLMProber checks that a model provider answers with the given settings.
type LLMProber interface {
	Probe(ctx context.Context, settings domain.LLMSettings) error
}
