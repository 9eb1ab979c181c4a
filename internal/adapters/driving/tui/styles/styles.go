// Package styles holds the DocuHub TUI palette and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// Palette colours. Each adapts to light and dark terminals.
var (
	Accent  = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	Ink     = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	Faint   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	Rule    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	Surface = lipgloss.AdaptiveColor{Light: "#E0F2F1", Dark: "#134E4A"}
	Caution = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Danger  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

// categoryColours gives each category a chip colour.
var categoryColours = map[domain.Category]lipgloss.AdaptiveColor{
	domain.CategorySRS:            {Light: "#1D4ED8", Dark: "#93C5FD"},
	domain.CategoryDataDictionary: {Light: "#7E22CE", Dark: "#D8B4FE"},
	domain.CategoryCRF:            {Light: "#BE185D", Dark: "#F9A8D4"},
	domain.CategoryIntegration:    {Light: "#C2410C", Dark: "#FDBA74"},
	domain.CategoryTechnical:      {Light: "#15803D", Dark: "#86EFAC"},
	domain.CategoryGeneral:        {Light: "#4B5563", Dark: "#D1D5DB"},
}

// Styles are the rendered styles shared by every view.
type Styles struct {
	// Heading is the view title.
	Heading lipgloss.Style

	// Label marks field names and section titles.
	Label lipgloss.Style

	// Body is regular text.
	Body lipgloss.Style

	// Dim is secondary text such as hints and previews.
	Dim lipgloss.Style

	// Cursor highlights the selected row.
	Cursor lipgloss.Style

	// Alert renders errors.
	Alert lipgloss.Style

	// Notice renders warnings such as a degraded answer.
	Notice lipgloss.Style

	// Tag renders document tags.
	Tag lipgloss.Style

	// Answer frames a synthesized answer.
	Answer lipgloss.Style

	// Fallback frames an answer produced without the model.
	Fallback lipgloss.Style

	// Input frames the query box.
	Input lipgloss.Style

	// Footer renders the key hint line.
	Footer lipgloss.Style
}

// New builds the DocuHub styles.
func New() *Styles {
	answer := lipgloss.NewStyle().
		Foreground(Ink).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		PaddingLeft(1)

	return &Styles{
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Label:    lipgloss.NewStyle().Bold(true).Foreground(Ink),
		Body:     lipgloss.NewStyle().Foreground(Ink),
		Dim:      lipgloss.NewStyle().Foreground(Faint),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(Accent).Background(Surface),
		Alert:    lipgloss.NewStyle().Foreground(Danger),
		Notice:   lipgloss.NewStyle().Foreground(Caution),
		Tag:      lipgloss.NewStyle().Foreground(Faint).Italic(true),
		Answer:   answer.BorderForeground(Accent),
		Fallback: answer.BorderForeground(Caution),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Rule).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(Faint).MarginTop(1),
	}
}

// Category renders a category as a coloured chip.
func (s *Styles) Category(c domain.Category) string {
	colour, ok := categoryColours[c]
	if !ok {
		colour = categoryColours[domain.CategoryGeneral]
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colour).Render(c.String())
}

// ForStatus returns the frame for an answer in the given call state.
// Only a succeeded call gets the accent frame.
func (s *Styles) ForStatus(status domain.CallStatus) lipgloss.Style {
	if status == domain.CallSucceeded {
		return s.Answer
	}
	return s.Fallback
}
