// Package cli provides the cobra command tree for docuhub.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/seed"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/core/services"
	"github.com/custodia-labs/docuhub-cli/internal/extractors"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

const memoryConfigDir = ":memory:"

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose   bool
	logFormat string
	configDir string
	seedFile  string
	noSeed    bool
	loadPaths []string
)

// Services shared by every command. Tests inject them directly; otherwise
// bootstrap wires them before the command runs.
var (
	searchService   driving.SearchService
	documentService driving.DocumentService
	settingsService driving.SettingsService
	fileIngester    *watcher.Ingester
	promptStore     *file.PromptStore
	llmResult       *ai.InitResult
)

var rootCmd = &cobra.Command{
	Use:   "docuhub",
	Short: "Team knowledge base with AI answers",
	Long: `DocuHub keeps a team's specifications, data dictionaries and runbooks in one
place and answers questions about them.

A search ranks documents by keyword relevance, then asks the configured
language model for an answer grounded in the top matches. Without a
language model the ranked documents are still returned.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if llmResult != nil {
			llmResult.Close()
			llmResult = nil
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&logFormat, "log-format", "text", "verbose log format: text or json")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory, or :memory: (default ~/.docuhub)")
	flags.StringVar(&seedFile, "seed", "", "YAML corpus to seed instead of the demo corpus")
	flags.BoolVar(&noSeed, "no-seed", false, "start with an empty knowledge base")
	flags.StringSliceVar(&loadPaths, "load", nil, "files or directories to ingest at start")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap wires the services. Commands that need nothing skip it.
func bootstrap(cmd *cobra.Command, _ []string) error {
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	logger.SetFormat(format)
	logger.SetVerbose(verbose)

	if cmd.Name() == "version" || searchService != nil || documentService != nil || settingsService != nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Section("Bootstrap")

	settingsStore, dir, err := openSettings(configDir)
	if err != nil {
		return err
	}
	logger.Debug("Settings: %s", settingsStore.Location())

	settingsSvc := services.NewSettingsService(settingsStore, ai.Prober{})
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	llmResult = ai.Initialise(ctx, &settings.LLM, false)
	for _, w := range llmResult.Warnings {
		if needsModel(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		} else {
			logger.Warn("%s", w)
		}
	}

	synthesizer := services.NewSynthesizer(llmResult.LLMService, settings.LLM.Timeout())
	analyzer := services.NewAnalyzer(llmResult.LLMService, settings.LLM.Timeout())
	if dir != "" {
		prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
		if err != nil {
			logger.Warn("Prompt templates unavailable, using defaults: %v", err)
		} else {
			synthesizer.SetPromptStore(prompts)
			analyzer.SetPromptStore(prompts)
			promptStore = prompts
		}
	}

	store := memory.NewDocumentStore()
	docSvc := services.NewDocumentService(store, analyzer, extractors.NewDefaultRegistry())

	if !noSeed {
		docs, err := seed.NewLoader(seedFile).Load(ctx)
		if err != nil {
			return fmt.Errorf("load seed corpus: %w", err)
		}
		if _, err := docSvc.Seed(ctx, docs); err != nil {
			return err
		}
	}

	ingester := watcher.NewIngester(docSvc)
	for _, path := range loadPaths {
		loaded, err := ingester.IngestPath(ctx, path)
		logger.Info("Loaded %d documents from %s", len(loaded), path)
		if err != nil {
			if len(loaded) == 0 {
				return fmt.Errorf("load %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: some files in %s were not loaded: %v\n", path, err)
		}
	}

	settingsService = settingsSvc
	documentService = docSvc
	fileIngester = ingester
	searchService = services.NewSearchService(store, synthesizer, settings.Retrieval.TopK)
	return nil
}

// openSettings opens the settings store for dir. ":memory:" keeps settings
// in the process and disables prompt files, signalled by an empty dir.
func openSettings(dir string) (driven.SettingsStore, string, error) {
	if dir == memoryConfigDir {
		return memory.NewSettingsStore(nil), "", nil
	}
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return nil, "", err
		}
		dir = d
	}
	store, err := file.NewSettingsStore(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open settings: %w", err)
	}
	return store, dir, nil
}

// needsModel reports whether a missing language model is worth telling the
// user about for this command.
func needsModel(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "search", "tui", "serve", "add":
		return true
	}
	return false
}

// Service guards shared by the commands.
var (
	errNoSearchService   = errors.New("search service not configured")
	errNoDocumentService = errors.New("document service not configured")
	errNoSettingsService = errors.New("settings service not configured")
)

// watchPrompts reloads edited prompt templates until ctx ends. Failure only
// means edits need a restart, so it is logged rather than returned.
func watchPrompts(ctx context.Context) {
	if promptStore == nil {
		return
	}
	if err := promptStore.Watch(ctx); err != nil {
		logger.Warn("Prompt edits will need a restart: %v", err)
	}
}
