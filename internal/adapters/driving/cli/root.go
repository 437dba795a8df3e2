package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

// needsAnnotation marks how much of the application a command needs.
const (
	needsAnnotation = "fireforget/needs"
	needsNothing    = "nothing"
	needsSettings   = "settings"
)

// App is the set of services the commands run against.
type App struct {
	Config   domain.AppConfig
	Notes    driving.NoteService
	Search   driving.SearchService
	Index    driving.IndexService
	Tasks    driving.TaskService
	Copilot  driving.CopilotService
	Settings driving.SettingsService
	Metrics  *metrics.Collector
}

// SettingsBuilder opens the configuration of a data directory.
type SettingsBuilder func(dataDir string) (driving.SettingsService, error)

// AppBuilder assembles the application for a data directory.
type AppBuilder func(dataDir string) (*App, error)

var (
	dataDir string
	verbose bool
	version = "dev"

	settingsBuilder SettingsBuilder
	appBuilder      AppBuilder

	appConfig       domain.AppConfig
	noteService     driving.NoteService
	searchService   driving.SearchService
	indexService    driving.IndexService
	taskService     driving.TaskService
	copilotService  driving.CopilotService
	settingsService driving.SettingsService
	collector       *metrics.Collector
)

var rootCmd = &cobra.Command{
	Use:   "fireforget",
	Short: "Fire-and-forget notes with semantic search",
	Long: `fireforget keeps quick Markdown notes in a local folder and finds them
again by meaning rather than exact words.

Every change to a note rebuilds the search index, so a note you just wrote
is searchable straight away. Use "fireforget serve" for the web UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.fireforget)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBuilders sets how commands obtain their services.
func SetBuilders(settings SettingsBuilder, app AppBuilder) {
	settingsBuilder = settings
	appBuilder = app
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	needs := cmd.Annotations[needsAnnotation]
	if needs == needsNothing {
		return nil
	}

	if settingsService == nil && settingsBuilder != nil {
		s, err := settingsBuilder(dataDir)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		settingsService = s
	}
	if needs == needsSettings || noteService != nil || appBuilder == nil {
		return nil
	}

	app, err := appBuilder(dataDir)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfig) {
			return fmt.Errorf("%w (fix it with \"fireforget config set\")", err)
		}
		return err
	}
	useApp(app)
	return nil
}

func useApp(app *App) {
	appConfig = app.Config
	noteService = app.Notes
	searchService = app.Search
	indexService = app.Index
	taskService = app.Tasks
	copilotService = app.Copilot
	if app.Settings != nil {
		settingsService = app.Settings
	}
	collector = app.Metrics
}
