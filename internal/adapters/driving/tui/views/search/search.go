// Package search provides the ask screen: a question box, the synthesized
// answer and the ranked documents behind it.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

// ErrNoSearchService indicates that no search service was provided.
var ErrNoSearchService = errors.New("search service is required")

// canceller is implemented by search services that can abort an in-flight query.
type canceller interface {
	Cancel()
}

// View is the ask screen. It is in one of two modes: typing a question,
// or browsing the results of the last one.
type View struct {
	styles     *styles.Styles
	queryKeys  keymap.Query
	resultKeys keymap.Results
	help       help.Model
	input      textinput.Model
	spinner    spinner.Model
	service    driving.SearchService
	ctx        context.Context
	outcome    *domain.SearchOutcome
	cursor     int
	width      int
	height     int
	ready      bool
	err        error
	searching  bool
	browsing   bool
}

// NewView creates the ask screen. s may be nil.
func NewView(s *styles.Styles, service driving.SearchService) *View {
	if s == nil {
		s = styles.New()
	}

	in := textinput.New()
	in.Prompt = "? "
	in.Placeholder = "Ask a question or enter keywords"
	in.CharLimit = 256
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = s.Dim

	return &View{
		styles:     s,
		queryKeys:  keymap.NewQuery(),
		resultKeys: keymap.NewResults(),
		help:       help.New(),
		input:      in,
		spinner:    sp,
		service:    service,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context queries run with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the ask screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.browsing {
			return v.browse(msg)
		}
		return v.typing(msg)

	case spinner.TickMsg:
		if !v.searching {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.SearchCompleted:
		v.complete(msg)
		return v, nil

	case messages.Failed:
		v.searching = false
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// typing handles keys while the question box has focus.
// A blank question is ignored and leaves the screen as it was.
func (v *View) typing(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.queryKeys.Cancel):
		return v, v.leave()
	case key.Matches(msg, v.queryKeys.Submit):
		query := v.input.Value()
		if strings.TrimSpace(query) == "" {
			return v, nil
		}
		v.searching = true
		v.browsing = true
		v.err = nil
		v.input.Blur()
		return v, tea.Batch(v.run(query), v.spinner.Tick)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// browse handles keys while the result list has focus.
func (v *View) browse(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.resultKeys.Back):
		return v, v.leave()
	case key.Matches(msg, v.resultKeys.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, v.resultKeys.Down):
		v.cursor = min(v.cursor+1, max(len(v.Results())-1, 0))
	case key.Matches(msg, v.resultKeys.Open):
		if r := v.SelectedResult(); r != nil {
			doc := r.Document
			return v, func() tea.Msg { return messages.OpenDocument{Document: doc} }
		}
	case key.Matches(msg, v.resultKeys.Details):
		if r := v.SelectedResult(); r != nil {
			doc := r.Document
			return v, func() tea.Msg { return messages.ShowDetails{Document: doc} }
		}
	case key.Matches(msg, v.resultKeys.NewQuery):
		// The previous answer stays on screen while the next question is typed.
		v.browsing = false
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// leave cancels any in-flight query and returns to the dashboard.
func (v *View) leave() tea.Cmd {
	if c, ok := v.service.(canceller); ok {
		c.Cancel()
	}
	v.searching = false
	return func() tea.Msg { return messages.Navigate{To: messages.ScreenHome} }
}

// run executes query in the background. A superseded or cancelled query
// produces no message, so its outcome never reaches the screen.
func (v *View) run(query string) tea.Cmd {
	ctx, svc := v.ctx, v.service
	return func() tea.Msg {
		if svc == nil {
			return messages.Failed{Err: ErrNoSearchService}
		}
		outcome, err := svc.Search(ctx, query, domain.SearchOptions{})
		if errors.Is(err, domain.ErrSuperseded) || errors.Is(err, context.Canceled) {
			return nil
		}
		return messages.SearchCompleted{Outcome: outcome, Err: err}
	}
}

func (v *View) complete(msg messages.SearchCompleted) {
	v.searching = false
	if msg.Err != nil {
		v.err = msg.Err
		return
	}
	if msg.Outcome == nil || !msg.Outcome.Performed {
		return
	}
	v.err = nil
	v.outcome = msg.Outcome
	v.cursor = 0
}

// View renders the ask screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	parts := []string{
		v.styles.Heading.Render("Ask DocuHub"),
		v.styles.Input.Width(max(v.width-4, 20)).Render(v.input.View()),
	}

	switch {
	case v.err != nil:
		parts = append(parts, v.styles.Alert.Render("Error: "+v.err.Error()))
	case v.searching:
		parts = append(parts, v.spinner.View()+v.styles.Dim.Render(" Thinking..."))
	}

	if v.outcome != nil {
		parts = append(parts,
			renderAnswer(v.styles, v.outcome, v.width),
			renderResults(v.styles, v.outcome, v.cursor, v.width, v.resultRows()),
		)
	}

	var keys help.KeyMap = v.queryKeys
	if v.browsing {
		keys = v.resultKeys
	}
	parts = append(parts, v.styles.Footer.Render(v.help.View(keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// resultRows is how many results fit below the answer.
func (v *View) resultRows() int {
	return max((v.height-16)/linesPerResult, 1)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = max(width-10, 20)
	v.help.Width = width
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the question box contents.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the question box contents.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Outcome returns the last completed search outcome.
func (v *View) Outcome() *domain.SearchOutcome {
	return v.outcome
}

// Results returns the ranked results of the last outcome.
func (v *View) Results() []domain.RetrievalResult {
	if v.outcome == nil {
		return nil
	}
	return v.outcome.Results
}

// SelectedIndex returns the highlighted result index.
func (v *View) SelectedIndex() int {
	return v.cursor
}

// SelectedResult returns the highlighted result, or nil if there is none.
func (v *View) SelectedResult() *domain.RetrievalResult {
	results := v.Results()
	if v.cursor < 0 || v.cursor >= len(results) {
		return nil
	}
	return &results[v.cursor]
}

// Searching reports whether a query is in flight.
func (v *View) Searching() bool {
	return v.searching
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the screen for a fresh question.
func (v *View) Reset() {
	v.browsing = false
	v.input.SetValue("")
	v.input.Focus()
	v.outcome = nil
	v.cursor = 0
	v.searching = false
	v.err = nil
}

// InputFocused returns whether the question box has focus.
func (v *View) InputFocused() bool {
	return !v.browsing
}
