package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/memory"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/services"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
)

const (
	lisbonPath  = memory.Root + "/lisbon.md"
	gardenPath  = memory.Root + "/garden.md"
	releasePath = memory.Root + "/release.md"
	readingPath = memory.Root + "/reading.md"
)

var seedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)

// testNotes is the note store behind setupTestServices.
var testNotes *memory.NoteStore

// setupTestServices wires real services over in-memory stores seeded with
// four notes on separate topics. The returned function restores the
// previous services.
func setupTestServices() func() {
	oldApp := App{
		Config:   appConfig,
		Notes:    noteService,
		Search:   searchService,
		Index:    indexService,
		Tasks:    taskService,
		Copilot:  copilotService,
		Settings: settingsService,
		Metrics:  collector,
	}
	oldSettingsBuilder, oldAppBuilder := settingsBuilder, appBuilder

	testNotes = memory.NewNoteStore()
	testNotes.Put(domain.Note{
		ID: "lisbon", Path: lisbonPath, Title: "Lisbon trip",
		Body:    "Flights to Lisbon booked for May.\n**pack the camera charger\n***renew passport\n",
		Created: seedTime, Updated: seedTime,
	})
	testNotes.Put(domain.Note{
		ID: "garden", Path: gardenPath, Title: "Garden",
		Body:    "Tomatoes need staking before the summer heat.\nWater the basil daily.\n",
		Created: seedTime.Add(time.Hour), Updated: seedTime.Add(time.Hour),
	})
	testNotes.Put(domain.Note{
		ID: "release", Path: releasePath, Title: "Release",
		Body:    "Deploy pipeline is flaky; retry the integration tests.\n**tag the release candidate\n",
		Created: seedTime.Add(2 * time.Hour), Updated: seedTime.Add(2 * time.Hour),
	})
	testNotes.Put(domain.Note{
		ID: "reading", Path: readingPath, Title: "Reading",
		Body:    "Chapter on database replication and consensus protocols.\n",
		Created: seedTime.Add(3 * time.Hour), Updated: seedTime.Add(3 * time.Hour),
	})

	cfg := domain.DefaultAppConfig("/memory")
	indexes := services.NewIndexService(testNotes, memory.NewIndexStore(), cfg.IndexPath)
	useApp(&App{
		Config:   cfg,
		Notes:    services.NewNoteService(testNotes, indexes),
		Search:   services.NewSearchService(indexes, cfg.MaxResults),
		Index:    indexes,
		Tasks:    services.NewTaskService(testNotes, indexes),
		Copilot:  services.NewCopilotService(indexes, cfg.CopilotDefaultK),
		Settings: services.NewSettingsService(memory.NewConfigStore(), cfg.DataDir),
	})
	settingsBuilder = nil
	appBuilder = nil

	return func() {
		useApp(&oldApp)
		settingsService = oldApp.Settings
		settingsBuilder, appBuilder = oldSettingsBuilder, oldAppBuilder
		resetFlags()
	}
}

// resetFlags restores command flag variables between tests.
func resetFlags() {
	searchLimit = 0
	searchJSON = false
	noteTitle = ""
	noteBody = ""
	noteListJSON = false
	taskListDone = false
	copilotK = 0
	copilotSources = false
	serveHost = ""
	servePort = 0
	serveMCPPort = 0
	serveNoWatch = false
	serveOpen = false
	mcpPort = 0
	for _, name := range []string{"host", "port", "mcp-port", "no-watch", "open"} {
		serveCmd.Flags().Lookup(name).Changed = false
	}
	_ = noteEditCmd.Flags().Set("title", "")
	_ = noteEditCmd.Flags().Set("body", "")
	noteEditCmd.Flags().Lookup("title").Changed = false
	noteEditCmd.Flags().Lookup("body").Changed = false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

var errServiceDown = errors.New("service down")

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return nil, errServiceDown
}

// mockIndexServiceError always fails.
type mockIndexServiceError struct{}

func (m *mockIndexServiceError) Current(context.Context) (*index.Index, error) {
	return nil, errServiceDown
}

func (m *mockIndexServiceError) Rebuild(context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, errServiceDown
}

func (m *mockIndexServiceError) Stats(context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, errServiceDown
}
