// Package documents provides the library screen: stored documents in a
// table, filtered by title, with reading, details and deletion.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

var errNoDocumentService = errors.New("document service not available")

// View is the library screen.
type View struct {
	styles *styles.Styles
	keys   keymap.Library
	help   help.Model
	table  table.Model
	filter textinput.Model
	docs   driving.DocumentService
	ctx    context.Context

	documents []domain.Document
	pending   string // ID awaiting delete confirmation
	loading   bool
	err       error
	width     int
	height    int
}

// NewView creates the library screen. s may be nil.
func NewView(s *styles.Styles, docs driving.DocumentService) *View {
	if s == nil {
		s = styles.New()
	}

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Rule).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Accent)
	ts.Selected = ts.Selected.Foreground(styles.Accent).Background(styles.Surface).Bold(true)
	t.SetStyles(ts)

	f := textinput.New()
	f.Prompt = "/ "
	f.Placeholder = "Filter by name..."
	f.CharLimit = 128

	return &View{
		styles:    s,
		keys:      keymap.NewLibrary(),
		help:      help.New(),
		table:     t,
		filter:    f,
		docs:      docs,
		ctx:       context.Background(),
		documents: []domain.Document{},
		width:     80,
		height:    24,
	}
}

// columns sizes the table to width. Title takes whatever the fixed
// columns leave.
func columns(width int) []table.Column {
	const category, department, uploaded, tags = 16, 14, 12, 24
	title := max(width-category-department-uploaded-tags-12, 20)
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Category", Width: category},
		{Title: "Department", Width: department},
		{Title: "Uploaded", Width: uploaded},
		{Title: "Tags", Width: tags},
	}
}

func row(doc domain.Document) table.Row {
	uploaded := "-"
	if !doc.UploadDate.IsZero() {
		uploaded = doc.UploadDate.Local().Format("2006-01-02")
	}
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	return table.Row{title, doc.Category.String(), orDash(doc.Department), uploaded, strings.Join(doc.Tags, ", ")}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// WithContext sets the context library calls run with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Load returns a command that lists the library under the current title
// filter.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.pending = ""
	ctx, svc := v.ctx, v.docs
	filter := domain.ListFilter{Title: v.filter.Value()}
	return func() tea.Msg {
		if svc == nil {
			return messages.LibraryLoaded{Err: errNoDocumentService}
		}
		docs, err := svc.List(ctx, filter)
		return messages.LibraryLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the library screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.LibraryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setDocuments(msg.Documents)
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Load()

	case messages.Failed:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.filter.Focused() {
		return v.editFilter(msg)
	}

	// Any key other than the confirmation abandons a pending delete.
	if v.pending != "" {
		id := v.pending
		v.pending = ""
		if key.Matches(msg, v.keys.Confirm) {
			return v, v.delete(id)
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return messages.Navigate{To: messages.ScreenHome} }
	case key.Matches(msg, v.keys.Reload):
		return v, v.Load()
	case key.Matches(msg, v.keys.Filter):
		return v, v.filter.Focus()
	case key.Matches(msg, v.keys.Open):
		if doc := v.SelectedDocument(); doc != nil {
			d := *doc
			return v, func() tea.Msg { return messages.OpenDocument{Document: d} }
		}
		return v, nil
	case key.Matches(msg, v.keys.Details):
		if doc := v.SelectedDocument(); doc != nil {
			d := *doc
			return v, func() tea.Msg { return messages.ShowDetails{Document: d} }
		}
		return v, nil
	case key.Matches(msg, v.keys.Delete):
		if doc := v.SelectedDocument(); doc != nil {
			v.pending = doc.ID
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// editFilter routes keys to the filter box. Enter applies the filter and
// Esc clears it; both return to the table.
func (v *View) editFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filter.Blur()
		return v, v.Load()
	case tea.KeyEsc:
		v.filter.Blur()
		v.filter.SetValue("")
		return v, v.Load()
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

// Filter returns the title filter text.
func (v *View) Filter() string {
	return v.filter.Value()
}

// delete returns a command that removes id from the library.
func (v *View) delete(id string) tea.Cmd {
	ctx, svc := v.ctx, v.docs
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: errNoDocumentService}
		}
		return messages.DocumentDeleted{DocumentID: id, Err: svc.Delete(ctx, id)}
	}
}

func (v *View) setDocuments(docs []domain.Document) {
	if docs == nil {
		docs = []domain.Document{}
	}
	v.documents = docs
	rows := make([]table.Row, len(docs))
	for i, d := range docs {
		rows[i] = row(d)
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// View renders the library screen.
func (v *View) View() string {
	parts := []string{v.styles.Heading.Render(fmt.Sprintf("Library (%d)", len(v.documents)))}
	if v.filter.Focused() || v.filter.Value() != "" {
		parts = append(parts, v.filter.View())
	}

	switch {
	case v.loading:
		parts = append(parts, v.styles.Dim.Render("Loading documents..."))
	case v.err != nil:
		parts = append(parts, v.styles.Alert.Render("Error: "+v.err.Error()))
	case len(v.documents) == 0 && v.filter.Value() != "":
		parts = append(parts, v.styles.Dim.Render("No documents match the filter. Press / then esc to clear it."))
	case len(v.documents) == 0:
		parts = append(parts, v.styles.Dim.Render("The knowledge base is empty. Add documents with 'docuhub document add'."))
	default:
		parts = append(parts, v.table.View())
	}

	if v.pending != "" {
		title := v.pending
		if doc := v.SelectedDocument(); doc != nil && doc.Title != "" {
			title = doc.Title
		}
		parts = append(parts, v.styles.Notice.Render(fmt.Sprintf("Delete %q? Press y to confirm, any other key to keep it.", title)))
	}

	parts = append(parts, v.styles.Footer.Render(v.help.View(v.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
	v.table.SetColumns(columns(width))
	v.table.SetHeight(max(height-8, 3))
}

// Documents returns the loaded library.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.table.Cursor()
}

// SelectedDocument returns the highlighted document, or nil when empty.
func (v *View) SelectedDocument() *domain.Document {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.documents) {
		return nil
	}
	return &v.documents[i]
}

// PendingDelete returns the ID awaiting confirmation, if any.
func (v *View) PendingDelete() string {
	return v.pending
}

// Loading reports whether the library is being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
