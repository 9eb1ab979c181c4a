package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/views/home"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// App is the DocuHub TUI. It implements tea.Model and routes messages
// to the active screen.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	help   help.Model

	home    *home.View
	ask     *search.View
	library *documents.View
	reader  *reader.View

	// screen is the active screen. ScreenContent stands for the reader
	// in either mode.
	screen messages.Screen

	// origin is the list screen (ask or library) the reader was opened from.
	origin messages.Screen

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI over ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.New()
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		help:    help.New(),
		home:    home.NewView(s, ports.Document),
		ask:     search.NewView(s, ports.Search),
		library: documents.NewView(s, ports.Document),
		reader:  reader.NewView(s),
		screen:  messages.ScreenHome,
		origin:  messages.ScreenAsk,
	}, nil
}

// WithContext sets the context for the program and every service call.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.home.WithContext(ctx)
	a.ask.WithContext(ctx)
	a.library.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("DocuHub"),
		a.home.Load(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.screen == messages.ScreenHelp {
			if msg.Type == tea.KeyEsc {
				a.screen = messages.ScreenHome
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.Navigate:
		return a, a.navigate(msg.To)

	case messages.OpenDocument:
		a.open(msg.Document, reader.ModeContent)
		return a, nil

	case messages.ShowDetails:
		a.open(msg.Document, reader.ModeDetails)
		return a, nil

	case messages.StatsLoaded:
		a.home, cmd = a.home.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.ask, cmd = a.ask.Update(msg)
		a.err = a.ask.Err()
		return a, cmd

	case messages.LibraryLoaded, messages.DocumentDeleted:
		a.library, cmd = a.library.Update(msg)
		return a, cmd

	case messages.Failed:
		a.err = msg.Err
		return a, a.forward(msg)
	}

	return a, a.forward(msg)
}

// navigate switches screens. Entering the ask or library screen from the
// dashboard starts fresh; returning from the reader keeps their state.
func (a *App) navigate(to messages.Screen) tea.Cmd {
	from := a.screen
	a.screen = to

	switch to {
	case messages.ScreenHome:
		return a.home.Load()
	case messages.ScreenAsk:
		if from == messages.ScreenHome {
			a.ask.Reset()
		}
		return a.ask.Init()
	case messages.ScreenLibrary:
		if from == messages.ScreenHome {
			return a.library.Load()
		}
	case messages.ScreenHelp, messages.ScreenContent, messages.ScreenDetails:
	}
	return nil
}

// open shows doc in the reader, remembering where to return.
func (a *App) open(doc domain.Document, mode reader.Mode) {
	if a.screen == messages.ScreenAsk || a.screen == messages.ScreenLibrary {
		a.origin = a.screen
	}
	a.reader.Show(doc, mode, a.origin)
	a.screen = messages.ScreenContent
}

// forward sends msg to the active screen.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case messages.ScreenHome:
		a.home, cmd = a.home.Update(msg)
	case messages.ScreenAsk:
		a.ask, cmd = a.ask.Update(msg)
		a.err = a.ask.Err()
	case messages.ScreenLibrary:
		a.library, cmd = a.library.Update(msg)
	case messages.ScreenContent, messages.ScreenDetails:
		a.reader, cmd = a.reader.Update(msg)
	case messages.ScreenHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.screen {
	case messages.ScreenAsk:
		return a.ask.View()
	case messages.ScreenLibrary:
		return a.library.View()
	case messages.ScreenContent, messages.ScreenDetails:
		return a.reader.View()
	case messages.ScreenHelp:
		return a.viewHelp()
	case messages.ScreenHome:
	}
	return a.home.View()
}

// viewHelp lists every screen's keys.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Heading.Render("Keys"))
	b.WriteString("\n")
	for _, section := range keymap.All() {
		b.WriteString("\n" + a.styles.Label.Render(section.Title) + "\n")
		b.WriteString(a.help.FullHelpView(section.Keys.FullHelp()))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Footer.Render("ctrl+c quit · esc back to the dashboard"))
	return b.String()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentScreen returns the active screen. The reader reports
// ScreenDetails while it shows metadata.
func (a *App) CurrentScreen() messages.Screen {
	if a.screen == messages.ScreenContent && a.reader.Mode() == reader.ModeDetails {
		return messages.ScreenDetails
	}
	return a.screen
}

// Query returns the question box contents.
func (a *App) Query() string {
	return a.ask.Query()
}

// Outcome returns the last search outcome, if any.
func (a *App) Outcome() *domain.SearchOutcome {
	return a.ask.Outcome()
}

// Results returns the current ranked results.
func (a *App) Results() []domain.RetrievalResult {
	return a.ask.Results()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every screen.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.home.SetWidth(width)
	a.ask.SetDimensions(width, height)
	a.library.SetDimensions(width, height)
	a.reader.SetDimensions(width, height)
}
