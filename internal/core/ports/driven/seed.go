package driven

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// SeedLoader supplies the corpus inserted at start.
type SeedLoader interface {
	// Load returns the seed documents.
	Load(ctx context.Context) ([]domain.Document, error)
}
