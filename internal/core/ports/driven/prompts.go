package driven

// PromptStore supplies the printf templates sent to the language model.
type PromptStore interface {
	// Load returns the template called name. Known names always resolve,
	// falling back to DefaultPrompts; unknown names may fail.
	Load(name string) (string, error)

	// Reload drops cached templates so the next Load reads them again.
	Reload()
}

// Template names. The %s arguments are listed in order.
const (
	// PromptSynthesis takes the question, then the numbered document context.
	PromptSynthesis = "synthesis"

	// PromptAnalysis takes the (truncated) document text.
	PromptAnalysis = "analysis"
)

// DefaultPrompts returns the built-in prompt templates keyed by name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		PromptSynthesis: `You are an intelligent knowledge base assistant.
User Query: "%s"

Here are some documents from the company database:
%s

Task:
1. Identify which documents are most relevant to the query.
2. Provide a direct answer to the user's query based ONLY on the provided information.
3. If the answer is found in a specific document, cite it.

Return JSON:
{
  "answer": "Your answer here...",
  "relevantDocIds": ["id1", "id2"]
}`,

		PromptAnalysis: `Analyze the following document text.
1. Provide a concise 2-sentence summary.
2. Provide up to 5 relevant tags (lowercase, short).

Return the output as JSON in the following format:
{
  "summary": "...",
  "tags": ["tag1", "tag2"]
}

Document Text (truncated):
%s`,
	}
}
