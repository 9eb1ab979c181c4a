package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docuhub-cli/internal/core/services"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for DocuHub.

Ask a question to get an AI answer with its sources and the ranked documents.
Typing a new question while one is running cancels the earlier one.

The dashboard shows knowledge base statistics and links to the question
box, the document library and the key reference.

Keys:
  ↑/k, ↓/j  Move
  Enter     Ask / Read document
  i         Document details (toggle while reading)
  n, /      New question
  d then y  Delete a document from the library
  Esc       Back / Cancel a running question
  q         Quit from the dashboard`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	var ports *tui.Ports
	if searchService != nil {
		ports = tui.NewPorts(services.NewQuerySession(searchService), documentService)
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchPrompts(ctx)
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
