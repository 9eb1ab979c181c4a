package memory

import (
	"sync"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore keeps settings for the life of the process. It backs
// --config-dir=:memory: and tests.
type SettingsStore struct {
	mu       sync.Mutex
	settings domain.AppSettings
	saves    int
}

// NewSettingsStore returns a store holding initial, or empty settings when
// initial is nil.
func NewSettingsStore(initial *domain.AppSettings) *SettingsStore {
	s := &SettingsStore{}
	if initial != nil {
		s.settings = *initial
	}
	return s
}

// Load returns a copy of the held settings.
func (s *SettingsStore) Load() (*domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	return &out, nil
}

// Save replaces the held settings.
func (s *SettingsStore) Save(settings *domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = *settings
	s.saves++
	return nil
}

// Location implements driven.SettingsStore.
func (s *SettingsStore) Location() string {
	return ":memory:"
}

// Saves reports how many times Save was called.
func (s *SettingsStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
