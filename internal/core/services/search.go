package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs lexical retrieval then answer synthesis.
type SearchService struct {
	docStore    driven.DocumentStore
	synthesizer *Synthesizer
	topK        int
}

// NewSearchService creates a new search service.
// synthesizer may be nil, in which case answers degrade to a fixed message.
// A topK of zero or less uses domain.DefaultTopK.
func NewSearchService(docStore driven.DocumentStore, synthesizer *Synthesizer, topK int) *SearchService {
	if synthesizer == nil {
		synthesizer = NewSynthesizer(nil, 0)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &SearchService{
		docStore:    docStore,
		synthesizer: synthesizer,
		topK:        topK,
	}
}

// Search ranks documents for query and synthesises an answer from the top results.
// A blank query returns an outcome with Performed false. Model failures are
// reported in the outcome's Synthesis, never as an error. If ctx is cancelled
// the outcome is discarded and ctx's error is returned.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchOutcome, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	if s.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.topK
	}

	outcome := &domain.SearchOutcome{Query: query}

	results, performed := Retrieve(query, s.docStore.List(ctx), limit)
	if !performed {
		logger.Debug("Blank query, retrieval not performed")
		return outcome, nil
	}
	outcome.Performed = true
	outcome.Results = results
	logger.Info("Retrieved %d candidates (limit %d)", len(results), limit)

	if opts.SkipSynthesis {
		outcome.Synthesis = domain.SynthesisResult{
			RelevantDocIDs: []string{},
			Status:         domain.CallSkipped,
		}
		return outcome, nil
	}

	outcome.Synthesis = s.synthesizer.Synthesize(ctx, query, results)
	if err := ctx.Err(); err != nil {
		logger.Debug("Search cancelled, discarding result")
		return nil, err
	}
	if outcome.Synthesis.Degraded() {
		logger.Warn("Synthesis degraded: %v", outcome.Synthesis.Reason)
	}

	return outcome, nil
}
