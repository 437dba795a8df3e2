package main

import (
	"fmt"
	"path/filepath"

	configfile "github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/config/file"
	notefile "github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/file"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/sqlite"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/cli"
	"github.com/cardinalphin/fire-and-forget-notes/internal/config"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/services"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
	"github.com/cardinalphin/fire-and-forget-notes/internal/postprocessors/chunker"
)

const promptsDirName = "prompts"

func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	return configfile.DefaultDataDir()
}

func buildSettings(dir string) (driving.SettingsService, error) {
	dataDir, err := resolveDataDir(dir)
	if err != nil {
		return nil, err
	}
	store, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, dataDir), nil
}

func buildApp(dir string) (*cli.App, error) {
	dataDir, err := resolveDataDir(dir)
	if err != nil {
		return nil, err
	}
	store, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(store, dataDir)
	if err != nil {
		return nil, err
	}

	notes, err := notefile.NewNoteStore(cfg.NotesDir)
	if err != nil {
		return nil, fmt.Errorf("open notes: %w", err)
	}

	collector := metrics.NewCollector()

	indexes := services.NewIndexService(notes, sqlite.NewIndexStore(), cfg.IndexPath,
		index.WithChunker(chunker.New(
			chunker.WithMaxChars(cfg.ChunkMaxChars),
			chunker.WithOverlap(cfg.ChunkOverlapChars),
		)),
	)
	indexes.SetMetrics(collector)

	search := services.NewSearchService(indexes, cfg.MaxResults)
	search.SetMetrics(collector)

	copilot := services.NewCopilotService(indexes, cfg.CopilotDefaultK)
	copilot.SetPromptStore(configfile.NewPromptStore(filepath.Join(dataDir, promptsDirName)))

	return &cli.App{
		Config:   cfg,
		Notes:    services.NewNoteService(notes, indexes),
		Search:   search,
		Index:    indexes,
		Tasks:    services.NewTaskService(notes, indexes),
		Copilot:  copilot,
		Settings: services.NewSettingsService(store, dataDir),
		Metrics:  collector,
	}, nil
}
