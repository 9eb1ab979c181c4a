package search

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

type mockSearchService struct {
	outcome   *domain.SearchOutcome
	err       error
	queries   []string
	cancelled int
}

func (m *mockSearchService) Search(_ context.Context, query string, _ domain.SearchOptions) (*domain.SearchOutcome, error) {
	m.queries = append(m.queries, query)
	return m.outcome, m.err
}

func (m *mockSearchService) Cancel() {
	m.cancelled++
}

func sampleOutcome() *domain.SearchOutcome {
	return &domain.SearchOutcome{
		Query:     "oauth",
		Performed: true,
		Results: []domain.RetrievalResult{
			{Document: domain.Document{ID: "1", Title: "Gateway SRS", Category: domain.CategorySRS, Tags: []string{"payments"}}, Score: 4},
			{Document: domain.Document{ID: "2", Title: "Patient Dictionary", Category: domain.CategoryDataDictionary}, Score: 1},
		},
		Synthesis: domain.SynthesisResult{
			Answer:         "The gateway validates OAuth2 tokens.",
			RelevantDocIDs: []string{"1"},
			Status:         domain.CallSucceeded,
		},
	}
}

func newReadyView(svc *mockSearchService) *View {
	v := NewView(nil, svc)
	v.SetDimensions(160, 40)
	return v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// submit asks query and returns the message the search produces.
func submit(t *testing.T, v *View, query string) tea.Msg {
	t.Helper()
	v.SetQuery(query)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	return v.run(query)()
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_BlankQueryLeavesStateUnchanged(t *testing.T) {
	svc := &mockSearchService{outcome: sampleOutcome()}
	v := newReadyView(svc)

	v.SetQuery("   ")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, v.InputFocused())
	assert.False(t, v.Searching())
	assert.Nil(t, v.Outcome())
	assert.Empty(t, svc.queries)
}

func TestView_BlankQueryKeepsPreviousAnswer(t *testing.T) {
	v := newReadyView(&mockSearchService{outcome: sampleOutcome()})
	v.Update(submit(t, v, "oauth"))
	v.Update(runes("n"))

	v.SetQuery(" ")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, v.Outcome())
	assert.Equal(t, "oauth", v.Outcome().Query)
}

func TestView_SearchShowsAnswerAndResults(t *testing.T) {
	svc := &mockSearchService{outcome: sampleOutcome()}
	v := newReadyView(svc)

	msg := submit(t, v, "oauth")
	assert.True(t, v.Searching())
	assert.False(t, v.InputFocused())
	assert.Contains(t, v.View(), "Thinking...")

	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	v.Update(completed)

	assert.False(t, v.Searching())
	assert.Contains(t, svc.queries, "oauth")
	assert.Len(t, v.Results(), 2)

	view := v.View()
	assert.Contains(t, view, "The gateway validates OAuth2 tokens.")
	assert.Contains(t, view, "Sources: Gateway SRS")
	assert.Contains(t, view, "Matches (2)")
	assert.Contains(t, view, "★ Gateway SRS")
	assert.Contains(t, view, "#payments")
	assert.Contains(t, view, "score 4")
}

func TestView_DegradedAnswer(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Synthesis = domain.SynthesisResult{
		Answer: domain.AnswerServiceFailed,
		Status: domain.CallDegraded,
	}
	v := newReadyView(&mockSearchService{outcome: outcome})

	v.Update(submit(t, v, "oauth"))

	view := v.View()
	assert.Contains(t, view, "answer unavailable")
	assert.NotContains(t, view, "Sources:")
	assert.Len(t, v.Results(), 2)
}

func TestView_AnswerWithoutCitations(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Synthesis = domain.SynthesisResult{
		Answer:         "The gateway validates OAuth2 tokens.",
		RelevantDocIDs: []string{},
		Status:         domain.CallSucceeded,
		Defaulted:      []string{"relevantDocIds"},
	}
	v := newReadyView(&mockSearchService{outcome: outcome})

	v.Update(submit(t, v, "oauth"))

	view := v.View()
	assert.Contains(t, view, "The gateway validates OAuth2 tokens.")
	assert.NotContains(t, view, "AI answer unavailable")
	assert.NotContains(t, view, "gave no answer")
}

func TestView_ReplyWithoutAnswer(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Synthesis = domain.SynthesisResult{
		Answer:         domain.AnswerMissing,
		RelevantDocIDs: []string{"1"},
		Status:         domain.CallSucceeded,
		Defaulted:      []string{"answer"},
	}
	v := newReadyView(&mockSearchService{outcome: outcome})

	v.Update(submit(t, v, "oauth"))

	view := v.View()
	assert.Contains(t, view, "The model gave no answer")
	assert.Contains(t, view, "Sources: Gateway SRS")
}

func TestView_NoMatches(t *testing.T) {
	outcome := &domain.SearchOutcome{
		Query:     "blockchain",
		Performed: true,
		Results:   []domain.RetrievalResult{},
		Synthesis: domain.SynthesisResult{Answer: domain.AnswerNoDocuments, Status: domain.CallSkipped},
	}
	v := newReadyView(&mockSearchService{outcome: outcome})

	v.Update(submit(t, v, "blockchain"))

	view := v.View()
	assert.Contains(t, view, domain.AnswerNoDocuments)
	assert.Contains(t, view, "No documents matched.")
	assert.Nil(t, v.SelectedResult())
}

func TestView_SupersededQueryProducesNoMessage(t *testing.T) {
	v := newReadyView(&mockSearchService{err: domain.ErrSuperseded})

	assert.Nil(t, submit(t, v, "oauth"))
}

func TestView_CancelledQueryProducesNoMessage(t *testing.T) {
	v := newReadyView(&mockSearchService{err: context.Canceled})

	assert.Nil(t, submit(t, v, "oauth"))
}

func TestView_SearchError(t *testing.T) {
	v := newReadyView(&mockSearchService{err: errors.New("store down")})

	v.Update(submit(t, v, "oauth"))

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "store down")
}

func TestView_NoSearchService(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 24)

	msg, ok := submit(t, v, "anything").(messages.Failed)

	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoSearchService)
	v.Update(msg)
	assert.Contains(t, v.View(), ErrNoSearchService.Error())
}

func TestView_EscCancelsAndReturnsHome(t *testing.T) {
	svc := &mockSearchService{outcome: sampleOutcome()}
	v := newReadyView(svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, 1, svc.cancelled)
	assert.Equal(t, messages.Navigate{To: messages.ScreenHome}, cmd())
}

func TestView_ResultNavigation(t *testing.T) {
	v := newReadyView(&mockSearchService{outcome: sampleOutcome()})
	v.Update(submit(t, v, "oauth"))

	v.Update(runes("j"))
	assert.Equal(t, 1, v.SelectedIndex())
	v.Update(runes("j"))
	assert.Equal(t, 1, v.SelectedIndex(), "cursor stops at the last result")

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	opened, ok := cmd().(messages.OpenDocument)
	require.True(t, ok)
	assert.Equal(t, "1", opened.Document.ID)

	_, cmd = v.Update(runes("i"))
	require.NotNil(t, cmd)
	details, ok := cmd().(messages.ShowDetails)
	require.True(t, ok)
	assert.Equal(t, "1", details.Document.ID)
}

func TestView_NewQueryKeepsResults(t *testing.T) {
	v := newReadyView(&mockSearchService{outcome: sampleOutcome()})
	v.Update(submit(t, v, "oauth"))

	v.Update(runes("/"))

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	assert.Len(t, v.Results(), 2)
}

func TestView_SpinnerStopsWhenIdle(t *testing.T) {
	v := newReadyView(&mockSearchService{})

	_, cmd := v.Update(spinner.TickMsg{})

	assert.Nil(t, cmd)
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(&mockSearchService{outcome: sampleOutcome()})
	v.Update(submit(t, v, "oauth"))

	v.Reset()

	assert.True(t, v.InputFocused())
	assert.Nil(t, v.Outcome())
	assert.Empty(t, v.Results())
	assert.NoError(t, v.Err())
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
	assert.Equal(t, "a", clip("abc", 1))
}

func TestCitedTitles_FallsBackToID(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Synthesis.RelevantDocIDs = []string{"1", "99"}

	assert.Equal(t, []string{"Gateway SRS", "99"}, citedTitles(outcome))
}
