package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or change settings",
	Long: `View and change the language model and retrieval settings.

Settings live in config.toml under the config directory (~/.docuhub unless
--config-dir says otherwise). These environment variables win over the file
and may come from a .env file:

  DOCUHUB_LLM_PROVIDER  DOCUHUB_LLM_MODEL  DOCUHUB_LLM_BASE_URL
  DOCUHUB_LLM_API_KEY   DOCUHUB_TOP_K      API_KEY (Gemini)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Choose the language model provider",
	Long: `Choose the language model used for answers and document summaries.

Without --provider the command asks for each value. Cloud providers need an
API key, which is read without echo when stdin is a terminal. The provider is
contacted once before the command reports success unless --no-validate is set.`,
	Args: cobra.NoArgs,
	RunE: runSettingsLLM,
}

var settingsTopKCmd = &cobra.Command{
	Use:   "topk <k>",
	Short: "Set how many documents a search returns",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsTopK,
}

var (
	settingsFormat         string
	settingsSkipValidation bool
	settingsProvider       string
	settingsModel          string
)

func init() {
	for _, c := range []*cobra.Command{settingsCmd, settingsShowCmd} {
		c.Flags().StringVarP(&settingsFormat, "format", "o", "table", "output format: table, json or yaml")
	}
	llmFlags := settingsLLMCmd.Flags()
	llmFlags.BoolVar(&settingsSkipValidation, "no-validate", false, "save without contacting the provider")
	llmFlags.StringVar(&settingsProvider, "provider", "", "provider: ollama, openai, anthropic or gemini")
	llmFlags.StringVar(&settingsModel, "model", "", "model name (provider default when empty)")

	settingsCmd.AddCommand(settingsShowCmd, settingsLLMCmd, settingsTopKCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingRow is one line of `settings show`.
type settingRow struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func settingRows(s *domain.AppSettings) []settingRow {
	llm := s.LLM
	provider := "(none)"
	if llm.Provider != "" {
		provider = string(llm.Provider)
	}
	rows := []settingRow{{"llm.provider", provider}}
	if llm.Provider.IsValid() {
		rows = append(rows, settingRow{"llm.model", llm.ModelOrDefault()})
	}
	if llm.BaseURL != "" {
		rows = append(rows, settingRow{"llm.base_url", llm.BaseURL})
	}
	if llm.Provider.RequiresAPIKey() {
		key := "(not set)"
		if llm.APIKey != "" {
			key = maskAPIKey(llm.APIKey)
		}
		rows = append(rows, settingRow{"llm.api_key", key})
	}
	rows = append(rows, settingRow{"llm.timeout", llm.Timeout().String()})
	if llm.RequestsPerSecond > 0 {
		rows = append(rows, settingRow{"llm.requests_per_second", strconv.FormatFloat(llm.RequestsPerSecond, 'g', -1, 64)})
	}
	return append(rows, settingRow{"retrieval.top_k", strconv.Itoa(s.Retrieval.TopK)})
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	rows := settingRows(settings)
	out := cmd.OutOrStdout()

	switch settingsFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, settingsFormat)
	}

	if err := writeSettingsTable(out, rows); err != nil {
		return err
	}

	cmd.Println()
	if settings.LLM.IsConfigured() {
		cmd.Printf("Language model: %s\n", settings.LLM.Provider.Description())
	} else {
		cmd.Println("Language model: not configured (answers and summaries unavailable)")
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docuhub settings llm' to fix it.")
	}
	return nil
}

func writeSettingsTable(out io.Writer, rows []settingRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintln(w, "---\t-----")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.Key, r.Value)
	}
	return w.Flush()
}

func runSettingsTopK(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: top k must be a number, got %q", domain.ErrInvalidInput, args[0])
	}
	if err := settingsService.SetTopK(k); err != nil {
		return fmt.Errorf("set top k: %w", err)
	}
	cmd.Printf("Searches now return up to %d documents.\n", k)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	in := bufio.NewReader(cmd.InOrStdin())

	provider, model, err := chooseProvider(cmd, in)
	if err != nil {
		return err
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Printf("API key for %s: ", provider.Description())
		apiKey = readSecret(in)
		cmd.Println()
		if apiKey == "" {
			return fmt.Errorf("%w: API key is required for %s", domain.ErrInvalidInput, provider)
		}
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}

	if !settingsSkipValidation {
		cmd.Print("Checking the provider... ")
		if err := settingsService.ProbeLLM(cmd.Context()); err != nil {
			cmd.Println("failed")
			return fmt.Errorf("provider saved but not reachable: %w", err)
		}
		cmd.Println("ok")
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	cmd.Printf("Answers now come from %s, model %s.\n", provider.Description(), model)
	return nil
}

// chooseProvider takes the provider and model from flags, or asks for them.
func chooseProvider(cmd *cobra.Command, in *bufio.Reader) (domain.AIProvider, string, error) {
	if settingsProvider != "" {
		p, err := domain.ParseAIProvider(settingsProvider)
		if err != nil {
			return "", "", err
		}
		return p, settingsModel, nil
	}

	providers := domain.AllLLMProviders()
	cmd.Println("Language model provider:")
	for i, p := range providers {
		cmd.Printf("  %d) %s\n", i+1, p.Description())
	}
	cmd.Print("Choice [1]: ")
	provider := providers[parseChoice(readLine(in), len(providers), 1)-1]

	model := settingsModel
	if model == "" {
		def := domain.DefaultLLMModels()[provider]
		cmd.Printf("Model [%s]: ", def)
		model = readLine(in)
	}
	return provider, model, nil
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n') //nolint:errcheck // EOF leaves a usable partial line
	return strings.TrimSpace(line)
}

// parseChoice returns the 1-based menu choice in input, or def when input
// is empty or out of range.
func parseChoice(input string, n, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 1 || v > n {
		return def
	}
	return v
}

// readSecret reads without echo from a terminal, or a plain line otherwise.
func readSecret(in *bufio.Reader) string {
	fd := int(os.Stdin.Fd())
	if in.Buffered() == 0 && term.IsTerminal(fd) {
		if b, err := term.ReadPassword(fd); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return readLine(in)
}

// maskAPIKey keeps the first and last four characters of long keys.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
