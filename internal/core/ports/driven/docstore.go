package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// DocumentStore holds the document collection.
// Documents are immutable once inserted; a rewrite is a delete followed by an insert.
type DocumentStore interface {
	// Insert adds a document. Returns domain.ErrDuplicateID if the ID is taken.
	Insert(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns every document in insertion order.
	// The sequence iterates a snapshot taken at call time.
	List(ctx context.Context) iter.Seq[domain.Document]

	// Count returns the number of stored documents.
	Count(ctx context.Context) int
}
