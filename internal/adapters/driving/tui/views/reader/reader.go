// Package reader shows one document, either its extracted text or its
// metadata, in a scrollable viewport.
package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// Mode selects what the reader shows.
type Mode int

const (
	// ModeContent shows the document's raw text.
	ModeContent Mode = iota
	// ModeDetails shows the document's metadata and summary.
	ModeDetails
)

// chrome is the number of lines used around the viewport.
const chrome = 6

// View is the document reader.
type View struct {
	styles   *styles.Styles
	keys     keymap.Reader
	help     help.Model
	viewport viewport.Model

	document *domain.Document
	mode     Mode
	back     messages.Screen
	width    int
}

// NewView creates the reader. s may be nil.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.New()
	}
	keys := keymap.NewReader()
	vp := viewport.New(80, 24-chrome)
	vp.KeyMap.Up = keys.Up
	vp.KeyMap.Down = keys.Down
	vp.KeyMap.PageUp = keys.PageUp
	vp.KeyMap.PageDown = keys.PageDown

	return &View{
		styles:   s,
		keys:     keys,
		help:     help.New(),
		viewport: vp,
		back:     messages.ScreenLibrary,
		width:    80,
	}
}

// Show displays doc in mode. Esc returns to back.
func (v *View) Show(doc domain.Document, mode Mode, back messages.Screen) {
	v.document = &doc
	v.mode = mode
	v.back = back
	v.refresh()
	v.viewport.GotoTop()
}

// Update handles messages for the reader.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.Back):
			back := v.back
			return v, func() tea.Msg { return messages.Navigate{To: back} }
		case key.Matches(msg, v.keys.Swap):
			if v.document != nil {
				v.mode = 1 - v.mode
				v.refresh()
				v.viewport.GotoTop()
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// refresh renders the document into the viewport for the current mode.
func (v *View) refresh() {
	if v.document == nil {
		v.viewport.SetContent(v.styles.Dim.Render("No document selected"))
		return
	}
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	if v.mode == ModeDetails {
		v.viewport.SetContent(v.details(wrap))
		return
	}
	text := strings.ReplaceAll(v.document.RawText, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		v.viewport.SetContent(v.styles.Dim.Render("(No extracted text)"))
		return
	}
	v.viewport.SetContent(wrap.Render(text))
}

func (v *View) details(wrap lipgloss.Style) string {
	doc := v.document
	uploaded := "-"
	if !doc.UploadDate.IsZero() {
		uploaded = doc.UploadDate.Local().Format("2006-01-02 15:04")
	}
	tags := "-"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}

	fields := [][2]string{
		{"ID", doc.ID},
		{"Category", v.styles.Category(doc.Category)},
		{"Department", dash(doc.Department)},
		{"Author", dash(doc.Author)},
		{"Version", dash(doc.Version)},
		{"Uploaded", uploaded},
		{"Tags", tags},
		{"Length", fmt.Sprintf("%d characters", len([]rune(doc.RawText)))},
	}

	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s %s\n", v.styles.Label.Render(fmt.Sprintf("%-11s", f[0])), f[1])
	}

	b.WriteString("\n" + v.styles.Label.Render("Summary") + "\n")
	summary := doc.SummaryText()
	if summary == "" {
		b.WriteString(v.styles.Dim.Render("Not summarised."))
	} else {
		b.WriteString(wrap.Render(summary))
	}
	return b.String()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// View renders the reader.
func (v *View) View() string {
	title := "Document"
	if v.document != nil {
		title = v.document.Title
		if title == "" {
			title = v.document.ID
		}
	}
	label := "text"
	if v.mode == ModeDetails {
		label = "details"
	}

	header := v.styles.Heading.Render(title) + v.styles.Dim.Render("  "+label)
	position := v.styles.Dim.Render(fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		v.viewport.View(),
		position,
		v.styles.Footer.Render(v.help.View(v.keys)),
	)
}

// SetDimensions sets the view dimensions and re-wraps the document.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.help.Width = width
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 3)
	v.refresh()
}

// Document returns the displayed document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Mode returns what the reader shows.
func (v *View) Mode() Mode {
	return v.mode
}

// Back returns the screen esc returns to.
func (v *View) Back() messages.Screen {
	return v.back
}

// Offset returns the viewport's scroll offset.
func (v *View) Offset() int {
	return v.viewport.YOffset
}
