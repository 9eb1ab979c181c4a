package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 3

// renderAnswer frames the synthesized answer and names its sources.
// Failed calls get a warning frame and a note saying why. A reply without
// an answer field gets the note but keeps its citations.
func renderAnswer(s *styles.Styles, outcome *domain.SearchOutcome, width int) string {
	syn := outcome.Synthesis

	var b strings.Builder
	b.WriteString(s.Body.Render(syn.Answer))

	switch syn.Status {
	case domain.CallDegraded:
		b.WriteString("\n" + s.Notice.Render("AI answer unavailable; showing keyword matches only."))
	case domain.CallSkipped:
	case domain.CallSucceeded:
		if !syn.HasAnswer() {
			b.WriteString("\n" + s.Notice.Render("The model gave no answer; showing keyword matches only."))
		}
		if cited := citedTitles(outcome); len(cited) > 0 {
			b.WriteString("\n\n" + s.Tag.Render("Sources: "+strings.Join(cited, ", ")))
		}
	}

	return s.ForStatus(syn.Status).Width(max(width-4, 20)).Render(b.String())
}

// citedTitles maps cited IDs to titles, falling back to the ID.
func citedTitles(outcome *domain.SearchOutcome) []string {
	titles := make(map[string]string, len(outcome.Results))
	for _, r := range outcome.Results {
		titles[r.Document.ID] = r.Document.Title
	}
	cited := make([]string, 0, len(outcome.Synthesis.RelevantDocIDs))
	for _, id := range outcome.Synthesis.RelevantDocIDs {
		if t := titles[id]; t != "" {
			cited = append(cited, t)
			continue
		}
		cited = append(cited, id)
	}
	return cited
}

// renderResults lists up to rows results around the cursor. Each result
// shows its title and score, its category, department and tags, and a
// one-line preview. Cited documents are starred.
func renderResults(s *styles.Styles, outcome *domain.SearchOutcome, cursor, width, rows int) string {
	results := outcome.Results
	if len(results) == 0 {
		return s.Dim.Render("No documents matched.")
	}

	start := max(cursor-rows+1, 0)
	end := min(start+rows, len(results))

	lines := []string{s.Label.Render(fmt.Sprintf("Matches (%d)", len(results)))}
	for i := start; i < end; i++ {
		lines = append(lines, renderResult(s, &results[i], i == cursor,
			slices.Contains(outcome.Synthesis.RelevantDocIDs, results[i].Document.ID), width))
	}
	if end-start < len(results) {
		lines = append(lines, s.Dim.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(results))))
	}
	return strings.Join(lines, "\n")
}

func renderResult(s *styles.Styles, r *domain.RetrievalResult, selected, cited bool, width int) string {
	doc := r.Document

	marker := "  "
	if cited {
		marker = "★ "
	}
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	head := marker + clip(title, max(width-16, 10))
	if selected {
		head = s.Cursor.Render(head)
	} else {
		head = s.Body.Render(head)
	}
	head += s.Dim.Render(fmt.Sprintf("  score %d", r.Score))

	meta := "    " + s.Category(doc.Category)
	if doc.Department != "" {
		meta += s.Dim.Render(" · " + doc.Department)
	}
	if len(doc.Tags) > 0 {
		meta += "  " + s.Tag.Render("#"+strings.Join(doc.Tags, " #"))
	}

	preview := doc.SummaryText()
	if preview == "" {
		preview = strings.Join(strings.Fields(doc.RawText), " ")
	}
	return head + "\n" + meta + "\n" + s.Dim.Render("    "+clip(preview, max(width-6, 20)))
}

// clip shortens s to n characters, marking the cut with an ellipsis.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
