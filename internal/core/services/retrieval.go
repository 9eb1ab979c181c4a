package services

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// Tokenize lower-cases query and splits it on whitespace.
// Tokens are neither deduplicated nor stemmed.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Retrieve ranks docs by lexical relevance to query and returns at most k results.
//
// A document is a candidate when any token is a substring of its title, raw text
// or tags. Its score is the total count of non-overlapping token occurrences in
// title and raw text. Equal scores keep input order.
//
// performed is false when the query is blank and nothing was searched.
func Retrieve(query string, docs iter.Seq[domain.Document], k int) (results []domain.RetrievalResult, performed bool) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, false
	}

	results = []domain.RetrievalResult{}
	if k <= 0 {
		return results, true
	}

	for doc := range docs {
		if !containsAny(candidateText(doc), tokens) {
			continue
		}
		results = append(results, domain.RetrievalResult{
			Document: doc,
			Score:    score(scoringText(doc), tokens),
		})
	}

	slices.SortStableFunc(results, func(a, b domain.RetrievalResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(results) > k {
		results = slices.Clip(results[:k])
	}
	return results, true
}

func candidateText(doc domain.Document) string {
	return strings.ToLower(doc.Title + " " + doc.RawText + " " + strings.Join(doc.Tags, " "))
}

func scoringText(doc domain.Document) string {
	return strings.ToLower(doc.Title + " " + doc.RawText)
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

func score(haystack string, tokens []string) int {
	total := 0
	for _, t := range tokens {
		total += strings.Count(haystack, t)
	}
	return total
}
