package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

const (
	promptExt    = ".txt"
	promptReadme = `# DocuHub prompts

Each <name>.txt file here is sent to the language model. Edits are picked up
by the next command, and immediately by a running "docuhub serve" or TUI.

synthesis.txt  answers a search. First %s is the question, second is the
               numbered document context.
analysis.txt   summarises and tags an upload. Its one %s is the document text.

Both must ask for JSON. Write %% for a literal percent sign. A file whose
%s count differs from the built-in prompt, or that uses any other % verb,
is ignored and the built-in prompt is used.
`
)

// PromptStore serves prompt templates from <dir>/<name>.txt, falling back
// to driven.DefaultPrompts. The directory is populated with the defaults the
// first time a prompt is loaded.
type PromptStore struct {
	dir      string
	defaults map[string]string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.docuhub/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{
		dir:      dir,
		defaults: driven.DefaultPrompts(),
		cache:    make(map[string]string),
	}, nil
}

func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })

	s.mu.RLock()
	tmpl, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = tmpl
	s.mu.Unlock()
	return tmpl, nil
}

// resolve picks the file on disk when it is usable and the default otherwise.
func (s *PromptStore) resolve(name string) (string, error) {
	def, known := s.defaults[name]
	if s.seedErr != nil {
		if known {
			return def, nil
		}
		return "", fmt.Errorf("prompt %q: %w", name, s.seedErr)
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if known {
			return def, nil
		}
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}
	custom := strings.TrimSpace(string(data))
	if known {
		if err := matchPlaceholders(custom, def); err != nil {
			logger.Warn("Ignoring %s: %v", s.path(name), err)
			return def, nil
		}
	}
	return custom, nil
}

// Reload forgets cached templates.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Watch reloads templates whenever a prompt file changes, until ctx ends.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		return s.seedErr
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	logger.Debug("Watching %s for prompt edits", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) == promptExt && !ev.Has(fsnotify.Chmod) {
				logger.Info("Prompt %s changed, reloading", filepath.Base(ev.Name))
				s.Reload()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher: %v", err)
		}
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

// seed creates the directory and writes any default prompt or readme that
// is missing. Existing files are never touched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	files := map[string]string{"README.md": promptReadme}
	for name, tmpl := range s.defaults {
		files[name+promptExt] = tmpl
	}
	for file, content := range files {
		err := writeIfMissing(filepath.Join(s.dir, file), content)
		if err != nil {
			return fmt.Errorf("write default %s: %w", file, err)
		}
	}
	return nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// matchPlaceholders requires custom to take as many %s arguments as def
// and to use no other verb.
func matchPlaceholders(custom, def string) error {
	got, err := placeholders(custom)
	if err != nil {
		return err
	}
	want, _ := placeholders(def)
	if got != want {
		return fmt.Errorf("has %d %%s placeholders, want %d", got, want)
	}
	return nil
}

// placeholders counts %s verbs. A literal percent sign must be written %%;
// any other use of % is an error.
func placeholders(tmpl string) (int, error) {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 == len(tmpl) {
			return 0, errors.New("ends with a lone %; write %% for a percent sign")
		}
		i++
		switch tmpl[i] {
		case 's':
			n++
		case '%':
		default:
			return 0, fmt.Errorf("uses %%%c at byte %d; only %%s and %%%% are allowed", tmpl[i], i-1)
		}
	}
	return n, nil
}
