package driving

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// DocumentService manages the document collection.
type DocumentService interface {
	// Add validates and inserts a fully formed document.
	Add(ctx context.Context, doc *domain.Document) error

	// Ingest extracts, analyses and inserts a new document.
	Ingest(ctx context.Context, req IngestRequest) (*domain.Document, error)

	// Analyze summarises and tags text without storing anything.
	Analyze(ctx context.Context, rawText string) domain.AnalysisResult

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns the documents matching filter in insertion order.
	// An unknown filter category is ErrInvalidInput.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)

	// Delete removes a document. Deleting an absent ID succeeds.
	Delete(ctx context.Context, documentID string) error

	// Stats summarises the collection for a dashboard.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Seed inserts documents at start, skipping IDs already present.
	Seed(ctx context.Context, docs []domain.Document) (int, error)
}

// IngestRequest describes a document to ingest.
// Either Content (a file to extract) or RawText must be provided.
type IngestRequest struct {
	// ID overrides the generated identifier.
	ID string

	// FileName is the uploaded file's name, used for type detection and as a fallback title.
	FileName string

	// Content is the uploaded file's bytes.
	Content []byte

	// RawText is used as-is when Content is empty.
	RawText string

	// Title overrides any title found during extraction.
	Title string

	Author     string
	Version    string
	Department string

	// Category is parsed case-insensitively. Empty means General.
	Category string

	// Tags are merged with analysis tags.
	Tags []string
}
