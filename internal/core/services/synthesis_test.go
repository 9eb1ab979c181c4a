package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

func ranked(ids ...string) []domain.RetrievalResult {
	out := make([]domain.RetrievalResult, len(ids))
	for i, id := range ids {
		out[i] = domain.RetrievalResult{
			Document: domain.Document{ID: id, Title: "Title " + id, RawText: "text of " + id},
			Score:    len(ids) - i,
		}
	}
	return out
}

func TestSynthesizer_NoCandidatesSkipsModel(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"x","relevantDocIds":[]}`}
	s := NewSynthesizer(llm, time.Second)

	result := s.Synthesize(context.Background(), "blockchain", nil)

	assert.Equal(t, domain.AnswerNoDocuments, result.Answer)
	assert.Equal(t, domain.CallSkipped, result.Status)
	assert.Empty(t, result.RelevantDocIDs)
	assert.NotNil(t, result.RelevantDocIDs)
	assert.Zero(t, llm.calls())
}

func TestSynthesizer_Success(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"Use Stripe.","relevantDocIds":["2","1"]}`}
	s := NewSynthesizer(llm, time.Second)

	result := s.Synthesize(context.Background(), "stripe payment", ranked("1", "2"))

	assert.Equal(t, domain.CallSucceeded, result.Status)
	assert.Equal(t, "Use Stripe.", result.Answer)
	assert.Equal(t, []string{"2", "1"}, result.RelevantDocIDs)
	assert.NoError(t, result.Reason)
	assert.Equal(t, 1, llm.calls())

	prompt := llm.lastPrompt()
	assert.Contains(t, prompt, `User Query: "stripe payment"`)
	assert.Contains(t, prompt, "ID: 1\nTitle: Title 1\nContent Snippet: text of 1")
	assert.Contains(t, prompt, "ID: 2")
}

func TestSynthesizer_SnippetTruncated(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"a","relevantDocIds":[]}`}
	s := NewSynthesizer(llm, time.Second)
	long := strings.Repeat("a", domain.SynthesisSnippetSize) + "TAIL"
	docs := []domain.RetrievalResult{{Document: domain.Document{ID: "1", Title: "T", RawText: long}}}

	s.Synthesize(context.Background(), "q", docs)

	prompt := llm.lastPrompt()
	assert.Contains(t, prompt, strings.Repeat("a", domain.SynthesisSnippetSize))
	assert.NotContains(t, prompt, "TAIL")
}

func TestSynthesizer_CitationsFiltered(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"a","relevantDocIds":["1","ghost","1"," 2 "]}`}
	s := NewSynthesizer(llm, time.Second)

	result := s.Synthesize(context.Background(), "q", ranked("1", "2"))

	assert.Equal(t, []string{"1", "2"}, result.RelevantDocIDs)
}

func TestSynthesizer_DegradedPaths(t *testing.T) {
	tests := []struct {
		name    string
		llm     *mockLLMService
		noLLM   bool
		answer  string
		wantErr error
	}{
		{
			name:    "missing credential",
			noLLM:   true,
			answer:  domain.AnswerUnavailable,
			wantErr: domain.ErrServiceUnavailable,
		},
		{
			name:    "service error",
			llm:     &mockLLMService{err: errors.New("503")},
			answer:  domain.AnswerServiceFailed,
			wantErr: domain.ErrServiceError,
		},
		{
			name:    "timeout",
			llm:     &mockLLMService{block: true},
			answer:  domain.AnswerServiceFailed,
			wantErr: domain.ErrServiceError,
		},
		{
			name:    "malformed JSON",
			llm:     &mockLLMService{response: "{not json"},
			answer:  domain.AnswerUnreadable,
			wantErr: domain.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(tt.llm, 20*time.Millisecond)
			if tt.noLLM {
				s = NewSynthesizer(nil, 20*time.Millisecond)
			}

			result := s.Synthesize(context.Background(), "q", ranked("1"))

			assert.Equal(t, domain.CallDegraded, result.Status)
			assert.True(t, result.Degraded())
			assert.Equal(t, tt.answer, result.Answer)
			assert.NotNil(t, result.RelevantDocIDs)
			assert.Empty(t, result.RelevantDocIDs)
			assert.ErrorIs(t, result.Reason, tt.wantErr)
		})
	}
}

func TestSynthesizer_FieldLevelDefaults(t *testing.T) {
	t.Run("missing answer keeps citations", func(t *testing.T) {
		llm := &mockLLMService{response: `{"relevantDocIds":["1"]}`}
		result := NewSynthesizer(llm, time.Second).Synthesize(context.Background(), "q", ranked("1"))

		assert.Equal(t, domain.AnswerMissing, result.Answer)
		assert.Equal(t, []string{"1"}, result.RelevantDocIDs)
		assert.Equal(t, domain.CallSucceeded, result.Status)
		assert.Equal(t, []string{"answer"}, result.Defaulted)
		assert.False(t, result.HasAnswer())
		assert.False(t, result.Degraded())
	})

	t.Run("missing citations keeps answer", func(t *testing.T) {
		llm := &mockLLMService{response: `{"answer":"Only an answer"}`}
		result := NewSynthesizer(llm, time.Second).Synthesize(context.Background(), "q", ranked("1"))

		assert.Equal(t, "Only an answer", result.Answer)
		assert.Empty(t, result.RelevantDocIDs)
		assert.NotNil(t, result.RelevantDocIDs)
		assert.Equal(t, domain.CallSucceeded, result.Status)
		assert.Equal(t, []string{"relevantDocIds"}, result.Defaulted)
		assert.True(t, result.HasAnswer())
		assert.False(t, result.Degraded())
	})

	t.Run("wrong types", func(t *testing.T) {
		llm := &mockLLMService{response: `{"answer":42,"relevantDocIds":"1"}`}
		result := NewSynthesizer(llm, time.Second).Synthesize(context.Background(), "q", ranked("1"))

		assert.Equal(t, domain.AnswerMissing, result.Answer)
		assert.Empty(t, result.RelevantDocIDs)
		assert.Equal(t, []string{"answer", "relevantDocIds"}, result.Defaulted)
	})
}

func TestSynthesizer_CustomPrompt(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"a","relevantDocIds":[]}`}
	s := NewSynthesizer(llm, time.Second)
	s.SetPromptStore(&mockPromptStore{prompts: map[string]string{"synthesis": "Q=%s\nCTX=%s"}})

	s.Synthesize(context.Background(), "hello", ranked("1"))

	require.Equal(t, 1, llm.calls())
	assert.True(t, strings.HasPrefix(llm.lastPrompt(), "Q=hello\nCTX=---"))
}

func TestSynthesizer_CancelledCallerDegrades(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSynthesizer(&mockLLMService{block: true}, time.Second)

	result := s.Synthesize(ctx, "q", ranked("1"))

	assert.Equal(t, domain.CallDegraded, result.Status)
	assert.ErrorIs(t, result.Reason, context.Canceled)
}
