package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

func setupTestDocStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()

	for _, doc := range []domain.Document{
		{ID: "1", Title: "Payment Gateway Integration V2", Category: domain.CategoryIntegration,
			RawText: "Stripe payment flow. Payment retries use stripe. Refund payment."},
		{ID: "2", Title: "Patient CRF", Category: domain.CategoryCRF, RawText: "visit forms", Tags: []string{"clinical"}},
		{ID: "3", Title: "Data Dictionary", Category: domain.CategoryDataDictionary, RawText: "payment_id column"},
	} {
		require.NoError(t, store.Insert(ctx, &doc))
	}
	return store
}

func TestNewSearchService(t *testing.T) {
	svc := NewSearchService(memory.NewDocumentStore(), nil, 0)

	require.NotNil(t, svc)
	assert.Equal(t, domain.DefaultTopK, svc.topK)
	assert.NotNil(t, svc.synthesizer)
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	llm := &mockLLMService{}
	svc := NewSearchService(setupTestDocStore(t), NewSynthesizer(llm, time.Second), 5)

	outcome, err := svc.Search(context.Background(), "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.False(t, outcome.Performed)
	assert.Nil(t, outcome.Results)
	assert.Zero(t, llm.calls())
}

func TestSearchService_Search_RanksAndSynthesises(t *testing.T) {
	llm := &mockLLMService{response: `{"answer":"Stripe.","relevantDocIds":["1"]}`}
	svc := NewSearchService(setupTestDocStore(t), NewSynthesizer(llm, time.Second), 5)

	outcome, err := svc.Search(context.Background(), "stripe payment", domain.SearchOptions{})

	require.NoError(t, err)
	assert.True(t, outcome.Performed)
	assert.Equal(t, []string{"1", "3"}, resultIDs(outcome.Results))
	assert.Equal(t, "Stripe.", outcome.Synthesis.Answer)
	assert.Equal(t, []string{"1"}, outcome.Synthesis.RelevantDocIDs)
	assert.Equal(t, 1, llm.calls())
}

func TestSearchService_Search_NoMatches(t *testing.T) {
	llm := &mockLLMService{}
	svc := NewSearchService(setupTestDocStore(t), NewSynthesizer(llm, time.Second), 5)

	outcome, err := svc.Search(context.Background(), "blockchain", domain.SearchOptions{})

	require.NoError(t, err)
	assert.True(t, outcome.Performed)
	assert.Empty(t, outcome.Results)
	assert.Equal(t, domain.AnswerNoDocuments, outcome.Synthesis.Answer)
	assert.Equal(t, domain.CallSkipped, outcome.Synthesis.Status)
	assert.Zero(t, llm.calls())
}

func TestSearchService_Search_LimitOption(t *testing.T) {
	svc := NewSearchService(setupTestDocStore(t), nil, 5)

	outcome, err := svc.Search(context.Background(), "payment", domain.SearchOptions{Limit: 1})

	require.NoError(t, err)
	assert.Len(t, outcome.Results, 1)
}

func TestSearchService_Search_SkipSynthesis(t *testing.T) {
	llm := &mockLLMService{}
	svc := NewSearchService(setupTestDocStore(t), NewSynthesizer(llm, time.Second), 5)

	outcome, err := svc.Search(context.Background(), "payment", domain.SearchOptions{SkipSynthesis: true})

	require.NoError(t, err)
	assert.Len(t, outcome.Results, 2)
	assert.Equal(t, domain.CallSkipped, outcome.Synthesis.Status)
	assert.Zero(t, llm.calls())
}

func TestSearchService_Search_NoLLMDegrades(t *testing.T) {
	svc := NewSearchService(setupTestDocStore(t), nil, 5)

	outcome, err := svc.Search(context.Background(), "payment", domain.SearchOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, outcome.Results)
	assert.Equal(t, domain.AnswerUnavailable, outcome.Synthesis.Answer)
	assert.True(t, outcome.Synthesis.Degraded())
}

func TestSearchService_Search_CancelledDiscardsResult(t *testing.T) {
	llm := &mockLLMService{block: true, started: make(chan struct{}, 1)}
	svc := NewSearchService(setupTestDocStore(t), NewSynthesizer(llm, time.Minute), 5)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-llm.started
		cancel()
	}()
	outcome, err := svc.Search(ctx, "payment", domain.SearchOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcome)
}

func TestSearchService_Search_NilStore(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	_, err := svc.Search(context.Background(), "payment", domain.SearchOptions{})

	assert.Error(t, err)
}
