// Package keymap defines the key bindings of each TUI screen.
// Every set implements help.KeyMap so footers render with bubbles/help.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

func binding(desc, display string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(display, desc))
}

var (
	up   = binding("up", "↑/k", "up", "k")
	down = binding("down", "↓/j", "down", "j")
	back = binding("back", "esc", "esc")
)

// Home binds the dashboard.
type Home struct {
	Up, Down, Select, Refresh, Quit key.Binding
}

// Query binds the search box while typing.
type Query struct {
	Submit, Cancel key.Binding
}

// Results binds the ranked result list.
type Results struct {
	Up, Down, Open, Details, NewQuery, Back key.Binding
}

// Library binds the document table.
type Library struct {
	Up, Down, Open, Details, Delete, Confirm, Reload, Filter, Back key.Binding
}

// Reader binds the content and details pages.
type Reader struct {
	Up, Down, PageUp, PageDown, Swap, Back key.Binding
}

// NewHome returns the dashboard bindings.
func NewHome() Home {
	return Home{
		Up:      up,
		Down:    down,
		Select:  binding("open", "enter", "enter"),
		Refresh: binding("refresh stats", "r", "r"),
		Quit:    binding("quit", "q", "q"),
	}
}

// NewQuery returns the search box bindings.
func NewQuery() Query {
	return Query{
		Submit: binding("ask", "enter", "enter"),
		Cancel: binding("cancel", "esc", "esc"),
	}
}

// NewResults returns the result list bindings.
func NewResults() Results {
	return Results{
		Up:       up,
		Down:     down,
		Open:     binding("read", "enter", "enter"),
		Details:  binding("details", "i", "i"),
		NewQuery: binding("new question", "n or /", "n", "/"),
		Back:     back,
	}
}

// NewLibrary returns the document table bindings.
func NewLibrary() Library {
	return Library{
		Up:      up,
		Down:    down,
		Open:    binding("read", "enter", "enter"),
		Details: binding("details", "i", "i"),
		Delete:  binding("delete", "d", "d"),
		Confirm: binding("confirm delete", "y", "y"),
		Reload:  binding("reload", "r", "r"),
		Filter:  binding("filter by title", "/", "/"),
		Back:    back,
	}
}

// NewReader returns the content and details page bindings.
// Swap toggles between a document's text and its metadata.
func NewReader() Reader {
	return Reader{
		Up:       up,
		Down:     down,
		PageUp:   binding("page up", "pgup", "pgup", "ctrl+u"),
		PageDown: binding("page down", "pgdn", "pgdown", "ctrl+d"),
		Swap:     binding("details", "i", "i"),
		Back:     back,
	}
}

var (
	_ help.KeyMap = Home{}
	_ help.KeyMap = Query{}
	_ help.KeyMap = Results{}
	_ help.KeyMap = Library{}
	_ help.KeyMap = Reader{}
)

// ShortHelp implements help.KeyMap.
func (k Home) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Home) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k Query) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k Query) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k Results) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Details, k.NewQuery, k.Back}
}

// FullHelp implements help.KeyMap.
func (k Results) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k Library) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Details, k.Filter, k.Delete, k.Reload, k.Back}
}

// FullHelp implements help.KeyMap.
func (k Library) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Confirm}, k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k Reader) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Swap, k.Back}
}

// FullHelp implements help.KeyMap.
func (k Reader) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Swap, k.Back}}
}

// All returns every screen's bindings, titled, for the help page.
func All() []Section {
	return []Section{
		{Title: "Dashboard", Keys: NewHome()},
		{Title: "Ask", Keys: NewQuery()},
		{Title: "Results", Keys: NewResults()},
		{Title: "Library", Keys: NewLibrary()},
		{Title: "Reading", Keys: NewReader()},
	}
}

// Section is a titled set of bindings.
type Section struct {
	Title string
	Keys  help.KeyMap
}
