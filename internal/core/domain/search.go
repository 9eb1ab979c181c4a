package domain

import "slices"

// DefaultTopK is the number of ranked documents handed to synthesis.
const DefaultTopK = 5

// RetrievalResult pairs a document with its lexical relevance score.
// It is produced fresh per query and never cached.
type RetrievalResult struct {
	// Document is the matched document.
	Document Document

	// Score is the summed substring occurrence count of the query tokens.
	Score int
}

// CallStatus is the terminal state of a single-shot language model call.
type CallStatus string

// Terminal states. Idle and Requesting are never observed by callers.
const (
	// CallSucceeded means the model returned a JSON object. Fields it left
	// out are filled with defaults and named in the result's Defaulted list.
	CallSucceeded CallStatus = "succeeded"

	// CallDegraded means the call failed and a fallback result was produced.
	CallDegraded CallStatus = "degraded"

	// CallSkipped means no call was made because there was nothing to send.
	CallSkipped CallStatus = "skipped"
)

// Fixed answers produced without a successful model response.
const (
	AnswerNoDocuments   = "No relevant documents found for your query."
	AnswerUnavailable   = "AI answer unavailable: no language model is configured."
	AnswerServiceFailed = "AI answer unavailable: the language model request failed."
	AnswerUnreadable    = "AI answer unavailable: the language model returned an unreadable response."
	AnswerMissing       = "Could not generate an answer."
	SummaryUnavailable  = "AI unavailable"
	SummaryFailed       = "Analysis failed."
	SummaryMissing      = "No summary generated."
)

// Prompt size bounds, in characters.
const (
	// SynthesisSnippetSize is how much of each candidate's text grounds an answer.
	SynthesisSnippetSize = 1000

	// AnalysisTextLimit is how much of a new document is sent for analysis.
	AnalysisTextLimit = 5000

	// MaxAnalysisTags caps the tags kept from an analysis response.
	MaxAnalysisTags = 5
)

// SynthesisResult is a grounded answer plus the cited document identifiers.
type SynthesisResult struct {
	// Answer is the synthesized answer or a fixed fallback message.
	Answer string `json:"answer"`

	// RelevantDocIDs lists cited candidates in model order.
	RelevantDocIDs []string `json:"relevantDocIds"`

	// Status is the terminal call state.
	Status CallStatus `json:"status"`

	// Defaulted names response fields the model omitted or mistyped.
	Defaulted []string `json:"defaulted,omitempty"`

	// Reason is the degradation cause (one of the language model errors).
	Reason error `json:"-"`
}

// Degraded reports whether the call failed and the answer is a fallback.
func (r SynthesisResult) Degraded() bool {
	return r.Status == CallDegraded
}

// HasAnswer reports whether Answer came from the model.
func (r SynthesisResult) HasAnswer() bool {
	return r.Status == CallSucceeded && !slices.Contains(r.Defaulted, "answer")
}

// AnalysisResult is the summary and tag set requested at ingestion time.
type AnalysisResult struct {
	// Summary is a short abstract or a fixed fallback marker.
	Summary string `json:"summary"`

	// Tags are lowercase short strings, at most MaxAnalysisTags.
	Tags []string `json:"tags"`

	// Status is the terminal call state.
	Status CallStatus `json:"status"`

	// Defaulted names response fields the model omitted or mistyped.
	Defaulted []string `json:"defaulted,omitempty"`

	// Reason is the degradation cause (one of the language model errors).
	Reason error `json:"-"`
}

// Degraded reports whether the call failed and the summary is a fallback.
func (r AnalysisResult) Degraded() bool {
	return r.Status == CallDegraded
}

// HasSummary reports whether Summary came from the model.
func (r AnalysisResult) HasSummary() bool {
	return r.Status == CallSucceeded && !slices.Contains(r.Defaulted, "summary")
}

// SearchOutcome is everything a front door needs to render one query.
type SearchOutcome struct {
	// Query is the query as submitted.
	Query string

	// Performed is false when the query was blank and no search ran.
	// A performed search with no results is a different state.
	Performed bool

	// Results are the ranked candidates, at most top-k.
	Results []RetrievalResult

	// Synthesis is the answer for the ranked candidates.
	Synthesis SynthesisResult
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of ranked results (default DefaultTopK).
	Limit int

	// SkipSynthesis returns ranked results without contacting the model.
	SkipSynthesis bool
}
