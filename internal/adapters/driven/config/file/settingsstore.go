package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.SettingsStore = (*SettingsStore)(nil)

// DirName is the config directory created under the user's home.
const DirName = ".docuhub"

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "config.toml"

// DefaultDir returns ~/.docuhub.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// llmTable is the [llm] table of config.toml.
type llmTable struct {
	Provider          string  `toml:"provider,omitempty"`
	Model             string  `toml:"model,omitempty"`
	BaseURL           string  `toml:"base_url,omitempty"`
	APIKey            string  `toml:"api_key,omitempty"`
	TimeoutSeconds    int     `toml:"timeout_seconds,omitempty"`
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
}

// retrievalTable is the [retrieval] table of config.toml.
type retrievalTable struct {
	TopK int `toml:"top_k,omitempty"`
}

type settingsFile struct {
	LLM       llmTable       `toml:"llm"`
	Retrieval retrievalTable `toml:"retrieval"`
}

// SettingsStore keeps settings in a TOML file. Tables it does not own are
// left as they are when saving, so the file can be shared with hand-written
// sections.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

// NewSettingsStore opens dir/config.toml, creating dir when needed. An empty
// dir means ~/.docuhub. A file that exists but does not parse is an error.
func NewSettingsStore(dir string) (*SettingsStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &SettingsStore{path: filepath.Join(dir, SettingsFile)}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the file. A missing file yields empty settings.
func (s *SettingsStore) Load() (*domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.AppSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var f settingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          domain.AIProvider(f.LLM.Provider),
			Model:             f.LLM.Model,
			BaseURL:           f.LLM.BaseURL,
			APIKey:            f.LLM.APIKey,
			TimeoutSeconds:    f.LLM.TimeoutSeconds,
			RequestsPerSecond: f.LLM.RequestsPerSecond,
		},
		Retrieval: domain.RetrievalSettings{TopK: f.Retrieval.TopK},
	}, nil
}

// Save rewrites the [llm] and [retrieval] tables. The file is replaced
// atomically and is readable by its owner only.
func (s *SettingsStore) Save(settings *domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]any{}
	if data, err := os.ReadFile(s.path); err == nil {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", s.path, err)
		}
	}
	doc["llm"] = llmTable{
		Provider:          settings.LLM.Provider.String(),
		Model:             settings.LLM.Model,
		BaseURL:           settings.LLM.BaseURL,
		APIKey:            settings.LLM.APIKey,
		TimeoutSeconds:    settings.LLM.TimeoutSeconds,
		RequestsPerSecond: settings.LLM.RequestsPerSecond,
	}
	doc["retrieval"] = retrievalTable{TopK: settings.Retrieval.TopK}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Location returns the settings file path.
func (s *SettingsStore) Location() string {
	return s.path
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
