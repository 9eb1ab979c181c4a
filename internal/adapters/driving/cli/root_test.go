package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/seed"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/services"
	"github.com/custodia-labs/docuhub-cli/internal/extractors"
)

// setupTestServices injects services over an in-memory store seeded with the
// demo corpus and no language model. It returns a function restoring the
// previous services.
func setupTestServices() func() {
	oldSearch, oldDocs, oldSettings, oldIngester := searchService, documentService, settingsService, fileIngester

	ctx := context.Background()
	store := memory.NewDocumentStore()
	docs := services.NewDocumentService(store, nil, extractors.NewDefaultRegistry())
	corpus, err := seed.NewLoader("").Load(ctx)
	if err != nil {
		panic(err)
	}
	if _, err := docs.Seed(ctx, corpus); err != nil {
		panic(err)
	}

	settings := services.NewSettingsService(memory.NewSettingsStore(nil), nil)
	settings.SetEnvLookup(nil)

	searchService = services.NewSearchService(store, services.NewSynthesizer(nil, 0), domain.DefaultTopK)
	documentService = docs
	settingsService = settings
	fileIngester = watcher.NewIngester(docs)

	return func() {
		searchService, documentService, settingsService, fileIngester = oldSearch, oldDocs, oldSettings, oldIngester
	}
}

// clearServices removes injected services so bootstrap wires real ones.
func clearServices() func() {
	oldSearch, oldDocs, oldSettings, oldIngester, oldPrompts := searchService, documentService, settingsService, fileIngester, promptStore
	searchService, documentService, settingsService, fileIngester, promptStore = nil, nil, nil, nil, nil
	return func() {
		searchService, documentService, settingsService, fileIngester, promptStore = oldSearch, oldDocs, oldSettings, oldIngester, oldPrompts
	}
}

// resetFlags returns every flag in the tree to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

func executeCommandWithInput(input string, args ...string) (string, error) {
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCUHUB_LLM_PROVIDER", "DOCUHUB_LLM_MODEL", "DOCUHUB_LLM_BASE_URL", "DOCUHUB_LLM_API_KEY", "API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docuhub", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "log-format", "config-dir", "seed", "no-seed", "load"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"search", "document", "settings", "serve", "mcp", "tui", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestBootstrap_SeedsDemoCorpus(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()

	out, err := executeCommand("document", "stats", "--config-dir", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "Total documents: 3")
	require.NotNil(t, documentService)
	require.NotNil(t, searchService)
	require.NotNil(t, settingsService)
}

func TestBootstrap_NoSeedAndLoad(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()

	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# Release Notes\n\nShip the gateway on Friday.\n"), 0o600))

	out, err := executeCommand("document", "list", "--config-dir", t.TempDir(), "--no-seed", "--load", notes)

	require.NoError(t, err)
	assert.Contains(t, out, "Release Notes")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestBootstrap_CustomSeedFile(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()

	corpus := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(corpus, []byte(`documents:
  - id: "a"
    title: Onboarding Guide
    category: General
    raw_text: Welcome aboard.
`), 0o600))

	out, err := executeCommand("document", "get", "a", "--config-dir", t.TempDir(), "--seed", corpus)

	require.NoError(t, err)
	assert.Contains(t, out, "Onboarding Guide")
}

func TestBootstrap_BadSeedFile(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()

	_, err := executeCommand("document", "stats", "--config-dir", t.TempDir(), "--seed", filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load seed corpus")
}

func TestBootstrap_WarnsWithoutModelOnSearch(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()

	out, err := executeCommand("search", "stripe", "--config-dir", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: No language model configured")
	assert.Contains(t, out, domain.AnswerUnavailable)
	assert.Contains(t, out, "Payment Gateway Integration V2")
}

func TestVersion_SkipsBootstrap(t *testing.T) {
	defer clearServices()()

	_, err := executeCommand("version", "--config-dir", filepath.Join(t.TempDir(), "never-created"))

	require.NoError(t, err)
	assert.Nil(t, documentService)
}

func TestBootstrap_RejectsUnknownLogFormat(t *testing.T) {
	defer clearServices()()

	_, err := executeCommand("version", "--log-format", "xml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBootstrap_InMemorySettings(t *testing.T) {
	clearLLMEnv(t)
	defer clearServices()()
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := executeCommand("settings", "topk", "4", "--config-dir", ":memory:")

	require.NoError(t, err, out)
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Retrieval.TopK)
	assert.NoDirExists(t, filepath.Join(home, ".docuhub"))
}
