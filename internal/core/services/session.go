package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

// Ensure QuerySession implements the interface.
var _ driving.SearchService = (*QuerySession)(nil)

// QuerySession allows one query in flight at a time.
// Starting a query cancels the previous one, whose caller receives
// domain.ErrSuperseded instead of a result. Blank queries are answered
// immediately and leave any in-flight query untouched.
type QuerySession struct {
	search driving.SearchService

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewQuerySession wraps search with latest-query-wins semantics.
func NewQuerySession(search driving.SearchService) *QuerySession {
	return &QuerySession{search: search}
}

// Search runs query, superseding any query still in flight.
func (q *QuerySession) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchOutcome, error) {
	if strings.TrimSpace(query) == "" {
		return &domain.SearchOutcome{Query: query}, nil
	}

	ctx, cancel := context.WithCancelCause(ctx)

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel(domain.ErrSuperseded)
	}
	q.seq++
	id := q.seq
	q.cancel = cancel
	q.mu.Unlock()

	outcome, err := q.search.Search(ctx, query, opts)

	q.mu.Lock()
	current := q.seq == id
	if current {
		q.cancel = nil
	}
	q.mu.Unlock()
	cancel(nil)

	if !current {
		return nil, domain.ErrSuperseded
	}
	return outcome, err
}

// Cancel aborts the in-flight query, if any.
func (q *QuerySession) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel(domain.ErrSuperseded)
		q.cancel = nil
	}
	q.seq++
}
