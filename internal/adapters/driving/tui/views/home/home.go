// Package home provides the DocuHub dashboard: corpus statistics and the
// entry points to every other screen.
package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

var errNoDocumentService = errors.New("document service not available")

const (
	barWidth    = 24
	recentShown = 5
)

// entry is one navigation target.
type entry struct {
	label  string
	screen messages.Screen
	quit   bool
}

var entries = []entry{
	{label: "Ask a question", screen: messages.ScreenAsk},
	{label: "Browse the library", screen: messages.ScreenLibrary},
	{label: "Keys", screen: messages.ScreenHelp},
	{label: "Quit", quit: true},
}

// View is the dashboard.
type View struct {
	styles *styles.Styles
	keys   keymap.Home
	help   help.Model
	docs   driving.DocumentService
	ctx    context.Context

	stats   *domain.Stats
	err     error
	cursor  int
	loading bool
	width   int
}

// NewView creates the dashboard. s may be nil.
func NewView(s *styles.Styles, docs driving.DocumentService) *View {
	if s == nil {
		s = styles.New()
	}
	return &View{
		styles: s,
		keys:   keymap.NewHome(),
		help:   help.New(),
		docs:   docs,
		ctx:    context.Background(),
		width:  80,
	}
}

// WithContext sets the context statistics are loaded with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Load returns a command that fetches fresh statistics.
func (v *View) Load() tea.Cmd {
	v.loading = true
	ctx, svc := v.ctx, v.docs
	return func() tea.Msg {
		if svc == nil {
			return messages.StatsLoaded{Err: errNoDocumentService}
		}
		stats, err := svc.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update handles dashboard messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StatsLoaded:
		v.loading = false
		v.stats, v.err = msg.Stats, msg.Err
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = max(v.cursor-1, 0)
		case key.Matches(msg, v.keys.Down):
			v.cursor = min(v.cursor+1, len(entries)-1)
		case key.Matches(msg, v.keys.Refresh):
			return v, v.Load()
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Select):
			e := entries[v.cursor]
			if e.quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg { return messages.Navigate{To: e.screen} }
		}
	}
	return v, nil
}

// View renders the dashboard.
func (v *View) View() string {
	sections := []string{
		v.styles.Heading.Render("DocuHub") + v.styles.Dim.Render("  Team Knowledge Base"),
		v.renderStats(),
		v.renderEntries(),
		v.styles.Footer.Render(v.help.View(v.keys)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderStats() string {
	switch {
	case v.err != nil:
		return "\n" + v.styles.Alert.Render("Statistics unavailable: "+v.err.Error()) + "\n"
	case v.stats == nil:
		return "\n" + v.styles.Dim.Render("Loading statistics...") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s\n\n", v.styles.Label.Render(fmt.Sprint(v.stats.TotalDocuments)), v.styles.Dim.Render("documents"))

	left := v.renderCounts("By category", v.stats.ByCategory, func(name string) string {
		return v.styles.Category(domain.Category(name))
	})
	right := v.renderCounts("By department", v.stats.ByDepartment, func(name string) string {
		return v.styles.Body.Render(name)
	})
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	b.WriteString("\n")

	if len(v.stats.Recent) > 0 {
		b.WriteString("\n" + v.styles.Label.Render("Recent uploads") + "\n")
		for i, doc := range v.stats.Recent {
			if i == recentShown {
				break
			}
			date := ""
			if !doc.UploadDate.IsZero() {
				date = doc.UploadDate.Local().Format("Jan 02")
			}
			fmt.Fprintf(&b, "  %s  %s\n", v.styles.Dim.Render(fmt.Sprintf("%-6s", date)), v.styles.Body.Render(doc.Title))
		}
	}
	return b.String()
}

// renderCounts draws a labelled bar per entry, scaled to the largest.
func (v *View) renderCounts(title string, counts []domain.CountEntry, label func(string) string) string {
	var b strings.Builder
	b.WriteString(v.styles.Label.Render(title))
	if len(counts) == 0 {
		return b.String() + "\n" + v.styles.Dim.Render("  none")
	}

	peak, nameWidth := 0, 0
	for _, c := range counts {
		peak = max(peak, c.Value)
		nameWidth = max(nameWidth, len([]rune(c.Name)))
	}
	for _, c := range counts {
		n := c.Value * barWidth / max(peak, 1)
		if c.Value > 0 {
			n = max(n, 1)
		}
		pad := strings.Repeat(" ", nameWidth-len([]rune(c.Name)))
		fmt.Fprintf(&b, "\n  %s%s %s %d", label(c.Name), pad,
			lipgloss.NewStyle().Foreground(styles.Accent).Render(strings.Repeat("█", n)), c.Value)
	}
	return b.String()
}

func (v *View) renderEntries() string {
	var b strings.Builder
	b.WriteString("\n")
	for i, e := range entries {
		if i == v.cursor {
			b.WriteString(v.styles.Cursor.Render("› "+e.label) + "\n")
			continue
		}
		b.WriteString(v.styles.Body.Render("  "+e.label) + "\n")
	}
	return b.String()
}

// SetWidth sets the render width.
func (v *View) SetWidth(width int) {
	v.width = width
	v.help.Width = width
}

// Stats returns the last loaded statistics.
func (v *View) Stats() *domain.Stats {
	return v.stats
}

// Cursor returns the highlighted entry index.
func (v *View) Cursor() int {
	return v.cursor
}

// Loading reports whether statistics are being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last statistics error.
func (v *View) Err() error {
	return v.err
}
