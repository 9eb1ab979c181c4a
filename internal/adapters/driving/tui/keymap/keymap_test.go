package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResults_Matches(t *testing.T) {
	k := NewResults()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"j moves down", runes("j"), k.Down},
		{"arrow moves down", tea.KeyMsg{Type: tea.KeyDown}, k.Down},
		{"k moves up", runes("k"), k.Up},
		{"enter reads", tea.KeyMsg{Type: tea.KeyEnter}, k.Open},
		{"slash starts a new question", runes("/"), k.NewQuery},
		{"n starts a new question", runes("n"), k.NewQuery},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, k.Back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestLibrary_DeleteNeedsConfirmKey(t *testing.T) {
	k := NewLibrary()

	assert.True(t, key.Matches(runes("d"), k.Delete))
	assert.False(t, key.Matches(runes("d"), k.Confirm))
	assert.True(t, key.Matches(runes("y"), k.Confirm))
	assert.True(t, key.Matches(runes("/"), k.Filter))
}

func TestReader_PageKeys(t *testing.T) {
	k := NewReader()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyPgDown}, k.PageDown))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlU}, k.PageUp))
	assert.True(t, key.Matches(runes("i"), k.Swap))
}

func TestShortHelp_HasHelpText(t *testing.T) {
	for _, section := range All() {
		t.Run(section.Title, func(t *testing.T) {
			bindings := section.Keys.ShortHelp()
			assert.NotEmpty(t, bindings)
			for _, b := range bindings {
				assert.NotEmpty(t, b.Help().Key)
				assert.NotEmpty(t, b.Help().Desc)
			}
			assert.NotEmpty(t, section.Keys.FullHelp())
		})
	}
}
