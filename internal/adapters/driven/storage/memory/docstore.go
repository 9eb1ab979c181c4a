package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Documents are kept in insertion order. Callers only ever see copies.
type DocumentStore struct {
	mu        sync.RWMutex
	order     []string
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// Insert adds a document as the most recent entry.
func (s *DocumentStore) Insert(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return fmt.Errorf("insert document %q: %w", doc.ID, domain.ErrDuplicateID)
	}
	s.documents[doc.ID] = doc.Clone()
	s.order = append(s.order, doc.ID)
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("get document %q: %w", id, domain.ErrNotFound)
	}
	out := doc.Clone()
	return &out, nil
}

// Delete removes a document. Absent IDs are ignored.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return nil
	}
	delete(s.documents, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// List returns a snapshot of the store in insertion order.
// Mutations after the call are not visible to the sequence.
func (s *DocumentStore) List(_ context.Context) iter.Seq[domain.Document] {
	s.mu.RLock()
	snapshot := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.documents[id].Clone())
	}
	s.mu.RUnlock()

	return func(yield func(domain.Document) bool) {
		for _, doc := range snapshot {
			if !yield(doc.Clone()) {
				return
			}
		}
	}
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
