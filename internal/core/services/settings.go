package services

import (
	"fmt"
	"strconv"

	"github.com/cardinalphin/fire-and-forget-notes/internal/config"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings stored in a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
}

// NewSettingsService creates a settings service for the data directory
// that relative paths are resolved against.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{configStore: configStore, dataDir: dataDir}
}

// List returns every known key with its effective value.
func (s *SettingsService) List() ([]domain.Setting, error) {
	cfg, err := config.Load(s.configStore, s.dataDir)
	if err != nil {
		return nil, err
	}
	keys := config.Keys()
	settings := make([]domain.Setting, 0, len(keys))
	for _, key := range keys {
		settings = append(settings, s.setting(cfg, key))
	}
	return settings, nil
}

// Get returns the effective value of key.
func (s *SettingsService) Get(key string) (domain.Setting, error) {
	if !isKnown(key) {
		return domain.Setting{}, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidConfig, key)
	}
	cfg, err := config.Load(s.configStore, s.dataDir)
	if err != nil {
		return domain.Setting{}, err
	}
	return s.setting(cfg, key), nil
}

// Set validates the configuration with key changed, then persists it.
func (s *SettingsService) Set(key, raw string) error {
	value, err := config.ParseValue(key, raw)
	if err != nil {
		return err
	}
	candidate := overlay{ConfigStore: s.configStore, key: key, value: value}
	if _, err := config.Load(candidate, s.dataDir); err != nil {
		return err
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) setting(cfg domain.AppConfig, key string) domain.Setting {
	_, explicit := s.configStore.Get(key)
	return domain.Setting{Key: key, Value: effectiveValue(cfg, key), Explicit: explicit}
}

func isKnown(key string) bool {
	for _, k := range config.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func effectiveValue(cfg domain.AppConfig, key string) string {
	switch key {
	case config.KeyNotesDir:
		return cfg.NotesDir
	case config.KeyIndexPath:
		return cfg.IndexPath
	case config.KeyUploadsDir:
		return cfg.UploadsDir
	case config.KeyHost:
		return cfg.Host
	case config.KeyPort:
		return strconv.Itoa(cfg.Port)
	case config.KeyChunkMax:
		return strconv.Itoa(cfg.ChunkMaxChars)
	case config.KeyChunkOverlap:
		return strconv.Itoa(cfg.ChunkOverlapChars)
	case config.KeyMaxResults:
		return strconv.Itoa(cfg.MaxResults)
	case config.KeyCopilotK:
		return strconv.Itoa(cfg.CopilotDefaultK)
	case config.KeyWatchNotes:
		return strconv.FormatBool(cfg.WatchNotes)
	}
	return ""
}

// overlay is a read view of a ConfigStore with one key replaced.
type overlay struct {
	driven.ConfigStore
	key   string
	value any
}

func (o overlay) Get(key string) (any, bool) {
	if key == o.key {
		return o.value, true
	}
	return o.ConfigStore.Get(key)
}

func (o overlay) GetString(key string) string {
	if key == o.key {
		if s, ok := o.value.(string); ok {
			return s
		}
		return ""
	}
	return o.ConfigStore.GetString(key)
}

func (o overlay) GetInt(key string) int {
	if key == o.key {
		if n, ok := o.value.(int); ok {
			return n
		}
		return 0
	}
	return o.ConfigStore.GetInt(key)
}

func (o overlay) GetBool(key string) bool {
	if key == o.key {
		b, _ := o.value.(bool)
		return b
	}
	return o.ConfigStore.GetBool(key)
}
