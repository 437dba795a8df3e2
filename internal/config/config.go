// Package config turns the key/value ConfigStore into a validated
// domain.AppConfig.
//
// Relative directory settings are resolved against the data directory.
// Struct tags on domain.AppConfig are checked with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
)

// Config keys for settings storage.
const (
	KeyNotesDir     = "notes.dir"
	KeyIndexPath    = "index.path"
	KeyUploadsDir   = "uploads.dir"
	KeyHost         = "server.host"
	KeyPort         = "server.port"
	KeyChunkMax     = "chunk.max_chars"
	KeyChunkOverlap = "chunk.overlap_chars"
	KeyMaxResults   = "search.max_results"
	KeyCopilotK     = "copilot.default_k"
	KeyWatchNotes   = "watch.enabled"
)

// Kind is the value type stored under a key.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

var kinds = map[string]Kind{
	KeyNotesDir:     KindString,
	KeyIndexPath:    KindString,
	KeyUploadsDir:   KindString,
	KeyHost:         KindString,
	KeyPort:         KindInt,
	KeyChunkMax:     KindInt,
	KeyChunkOverlap: KindInt,
	KeyMaxResults:   KindInt,
	KeyCopilotK:     KindInt,
	KeyWatchNotes:   KindBool,
}

var validate = validator.New()

// Keys returns every known key in lexical order.
func Keys() []string {
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load builds the typed configuration for dataDir from store, filling
// unset keys with defaults, and validates it.
func Load(store driven.ConfigStore, dataDir string) (domain.AppConfig, error) {
	absData, err := filepath.Abs(dataDir)
	if err != nil {
		return domain.AppConfig{}, fmt.Errorf("resolve data directory: %w", err)
	}

	cfg := domain.DefaultAppConfig(absData)
	l := loader{store: store, dataDir: absData}

	cfg.NotesDir = l.path(KeyNotesDir, cfg.NotesDir)
	cfg.IndexPath = l.path(KeyIndexPath, cfg.IndexPath)
	cfg.UploadsDir = l.path(KeyUploadsDir, cfg.UploadsDir)
	cfg.Host = l.str(KeyHost, cfg.Host)
	cfg.Port = l.int(KeyPort, cfg.Port)
	cfg.ChunkMaxChars = l.int(KeyChunkMax, cfg.ChunkMaxChars)
	cfg.ChunkOverlapChars = l.int(KeyChunkOverlap, cfg.ChunkOverlapChars)
	cfg.MaxResults = l.int(KeyMaxResults, cfg.MaxResults)
	cfg.CopilotDefaultK = l.int(KeyCopilotK, cfg.CopilotDefaultK)
	cfg.WatchNotes = l.bool(KeyWatchNotes, cfg.WatchNotes)

	if err := Validate(cfg); err != nil {
		return domain.AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg domain.AppConfig) error {
	var problems []string
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			problems = append(problems, formatFieldError(fe))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseValue converts the command-line text for key into the stored type.
func ParseValue(key, raw string) (any, error) {
	kind, ok := kinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidConfig, key)
	}
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidConfig, key)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidConfig, key)
		}
		return b, nil
	default:
		return raw, nil
	}
}

var fieldKeys = map[string]string{
	"DataDir":           "data directory",
	"NotesDir":          KeyNotesDir,
	"IndexPath":         KeyIndexPath,
	"UploadsDir":        KeyUploadsDir,
	"Host":              KeyHost,
	"Port":              KeyPort,
	"ChunkMaxChars":     KeyChunkMax,
	"ChunkOverlapChars": KeyChunkOverlap,
	"MaxResults":        KeyMaxResults,
	"CopilotDefaultK":   KeyCopilotK,
}

func formatFieldError(fe validator.FieldError) string {
	name := fieldKeys[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "ltfield":
		other := fieldKeys[fe.Param()]
		if other == "" {
			other = fe.Param()
		}
		return fmt.Sprintf("%s must be smaller than %s", name, other)
	case "hostname|ip":
		return fmt.Sprintf("%s must be a host name or IP address", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

type loader struct {
	store   driven.ConfigStore
	dataDir string
}

func (l loader) str(key, def string) string {
	if v := strings.TrimSpace(l.store.GetString(key)); v != "" {
		return v
	}
	return def
}

func (l loader) path(key, def string) string {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	if !filepath.IsAbs(v) {
		v = filepath.Join(l.dataDir, v)
	}
	return filepath.Clean(v)
}

func (l loader) int(key string, def int) int {
	if _, ok := l.store.Get(key); !ok {
		return def
	}
	return l.store.GetInt(key)
}

func (l loader) bool(key string, def bool) bool {
	if _, ok := l.store.Get(key); !ok {
		return def
	}
	return l.store.GetBool(key)
}
