package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// SynthesisSchema is the response contract for answer synthesis.
var SynthesisSchema = driven.ResponseSchema{
	Name: "synthesis",
	Fields: []driven.SchemaField{
		{Name: "answer", Type: driven.FieldString, Description: "Direct answer grounded only in the supplied documents"},
		{Name: "relevantDocIds", Type: driven.FieldStringArray, Description: "IDs of the documents the answer relies on"},
	},
}

// Synthesizer produces grounded answers from ranked documents.
type Synthesizer struct {
	caller structuredCaller
}

// NewSynthesizer creates a synthesizer. llm may be nil, in which case
// every answer degrades to a fixed message.
func NewSynthesizer(llm driven.LLMService, timeout time.Duration) *Synthesizer {
	return &Synthesizer{
		caller: structuredCaller{llm: llm, timeout: timeout, component: "synthesis"},
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.caller.prompts = store
}

// Synthesize asks the model for an answer to query grounded in ranked.
// It never fails: a failed call yields a degraded result, and fields
// missing from an otherwise readable response take their defaults.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, ranked []domain.RetrievalResult) domain.SynthesisResult {
	if len(ranked) == 0 {
		return domain.SynthesisResult{
			Answer:         domain.AnswerNoDocuments,
			RelevantDocIDs: []string{},
			Status:         domain.CallSkipped,
		}
	}

	prompt := fmt.Sprintf(s.caller.template(driven.PromptSynthesis), query, groundingContext(ranked))

	obj, err := s.caller.call(ctx, prompt, SynthesisSchema)
	if err != nil {
		return domain.SynthesisResult{
			Answer:         degradedAnswer(err),
			RelevantDocIDs: []string{},
			Status:         domain.CallDegraded,
			Reason:         err,
		}
	}

	result := domain.SynthesisResult{Status: domain.CallSucceeded}

	answer, ok := stringField(obj, "answer")
	if !ok {
		answer = domain.AnswerMissing
		result.Defaulted = append(result.Defaulted, "answer")
	}
	result.Answer = answer

	ids, ok := stringArrayField(obj, "relevantDocIds")
	if !ok {
		result.Defaulted = append(result.Defaulted, "relevantDocIds")
	}
	result.RelevantDocIDs = filterCitations(ids, ranked)

	if len(result.Defaulted) > 0 {
		logger.Debug("Synthesis response defaulted %v", result.Defaulted)
	}
	return result
}

// groundingContext renders each candidate's ID, title and text snippet.
func groundingContext(ranked []domain.RetrievalResult) string {
	var b strings.Builder
	for _, r := range ranked {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "ID: %s\n", r.Document.ID)
		fmt.Fprintf(&b, "Title: %s\n", r.Document.Title)
		fmt.Fprintf(&b, "Content Snippet: %s\n", truncateRunes(r.Document.RawText, domain.SynthesisSnippetSize))
		b.WriteString("---\n")
	}
	return b.String()
}

// filterCitations keeps IDs of documents that were sent, without duplicates.
func filterCitations(ids []string, ranked []domain.RetrievalResult) []string {
	sent := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		sent[r.Document.ID] = true
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if !sent[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func degradedAnswer(err error) string {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return domain.AnswerUnavailable
	case errors.Is(err, domain.ErrMalformedResponse):
		return domain.AnswerUnreadable
	default:
		return domain.AnswerServiceFailed
	}
}
