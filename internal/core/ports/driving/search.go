package driving

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// SearchService answers free-text queries over the document store.
type SearchService interface {
	// Search ranks documents for query and synthesises a grounded answer.
	// A blank query returns an outcome with Performed set to false.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchOutcome, error)
}
