package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui"
)

func TestTUICmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"tui"})

	require.NoError(t, err)
	assert.Same(t, tuiCmd, cmd)
	for _, key := range []string{"Enter", "Esc", "cancels the earlier one"} {
		assert.Contains(t, tuiCmd.Long, key)
	}
}

func TestTUICmd_RequiresDocumentService(t *testing.T) {
	defer setupTestServices()()
	documentService = nil

	_, err := executeCommand("tui")

	require.Error(t, err)
	assert.ErrorIs(t, err, tui.ErrMissingDocumentService)
	assert.NotErrorIs(t, err, tui.ErrMissingSearchService)
}
