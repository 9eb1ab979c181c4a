package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchNoAnswer bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Ask a question or search by keywords",
	Long: `Ranks documents by how often the query words appear in their title and
text, then asks the language model for an answer grounded in the top matches.

If no language model is configured, or the request fails, the ranked
documents are still shown with a note that the answer is unavailable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from settings)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchNoAnswer, "no-answer", false, "skip the AI answer and only rank documents")
	rootCmd.AddCommand(searchCmd)
}

// searchResultJSON is one ranked document in JSON output.
type searchResultJSON struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Department string   `json:"department,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Score      int      `json:"score"`
}

// searchOutputJSON is the JSON form of a search outcome.
type searchOutputJSON struct {
	Query          string             `json:"query"`
	Performed      bool               `json:"performed"`
	Answer         string             `json:"answer,omitempty"`
	AnswerStatus   string             `json:"answerStatus,omitempty"`
	Defaulted      []string           `json:"defaulted,omitempty"`
	RelevantDocIDs []string           `json:"relevantDocIds"`
	Results        []searchResultJSON `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNoSearchService
	}

	query := strings.Join(args, " ")
	opts := domain.SearchOptions{
		Limit:         searchLimit,
		SkipSynthesis: searchNoAnswer,
	}

	outcome, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, newSearchOutputJSON(outcome))
	}

	return outputSearchText(cmd, outcome)
}

func newSearchOutputJSON(outcome *domain.SearchOutcome) searchOutputJSON {
	out := searchOutputJSON{
		Query:          outcome.Query,
		Performed:      outcome.Performed,
		Answer:         outcome.Synthesis.Answer,
		AnswerStatus:   string(outcome.Synthesis.Status),
		Defaulted:      outcome.Synthesis.Defaulted,
		RelevantDocIDs: outcome.Synthesis.RelevantDocIDs,
		Results:        make([]searchResultJSON, 0, len(outcome.Results)),
	}
	if out.RelevantDocIDs == nil {
		out.RelevantDocIDs = []string{}
	}
	for i := range outcome.Results {
		doc := &outcome.Results[i].Document
		out.Results = append(out.Results, searchResultJSON{
			ID:         doc.ID,
			Title:      doc.Title,
			Category:   doc.Category.String(),
			Department: doc.Department,
			Tags:       doc.Tags,
			Summary:    doc.SummaryText(),
			Score:      outcome.Results[i].Score,
		})
	}
	return out
}

func outputSearchText(cmd *cobra.Command, outcome *domain.SearchOutcome) error {
	if !outcome.Performed {
		cmd.Println("Enter a query to search.")
		return nil
	}

	if outcome.Synthesis.Answer != "" {
		cmd.Println("Answer:")
		cmd.Printf("  %s\n", outcome.Synthesis.Answer)
		if titles := citedTitles(outcome); len(titles) > 0 {
			cmd.Printf("\n  Sources: %s\n", strings.Join(titles, "; "))
		}
		cmd.Println()
	}

	if len(outcome.Results) == 0 {
		if outcome.Synthesis.Answer == "" {
			cmd.Println("No results found.")
		}
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range outcome.Results {
		doc := &outcome.Results[i].Document
		title := doc.Title
		if title == "" {
			title = doc.ID
		}

		cmd.Printf("  [%d] %s (score %d)\n", i+1, title, outcome.Results[i].Score)
		meta := doc.Category.String()
		if doc.Department != "" {
			meta += " · " + doc.Department
		}
		cmd.Printf("      %s  id=%s\n", meta, doc.ID)
		if summary := doc.SummaryText(); summary != "" {
			cmd.Printf("      %s\n", summary)
		}
		cmd.Println()
	}

	return nil
}

// citedTitles resolves cited identifiers to titles of the ranked documents.
func citedTitles(outcome *domain.SearchOutcome) []string {
	titles := make([]string, 0, len(outcome.Synthesis.RelevantDocIDs))
	for _, id := range outcome.Synthesis.RelevantDocIDs {
		for i := range outcome.Results {
			if outcome.Results[i].Document.ID == id {
				titles = append(titles, outcome.Results[i].Document.Title)
				break
			}
		}
	}
	return titles
}
