package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/keymap"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/messages"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/styles"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/views/note"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/views/search"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// App is the root Bubbletea model. It routes messages to the search view
// or the note view.
type App struct {
	ports  *Ports
	ctx    context.Context
	keymap *keymap.KeyMap

	searchView *search.View
	noteView   *note.View

	currentView messages.ViewType
	ready       bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Search, ports.Limit),
		noteView:    note.NewView(s, km, ports.Notes),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context service calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.noteView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("fireforget"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}

	case messages.ResultSelected:
		a.currentView = messages.ViewNote
		return a, a.noteView.SetResult(msg.Result)

	case messages.NoteLoaded:
		a.noteView, cmd = a.noteView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewNote:
		a.noteView, cmd = a.noteView.Update(msg)
	default:
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewNote {
		return a.noteView.View()
	}
	return a.searchView.View()
}

// Run starts the program in the alternate screen and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.noteView.SetDimensions(width, height)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// Note returns the note on screen in the note view, or nil.
func (a *App) Note() *domain.Note {
	return a.noteView.Note()
}

// Err returns the last error of the active view.
func (a *App) Err() error {
	if a.currentView == messages.ViewNote {
		return a.noteView.Err()
	}
	return a.searchView.Err()
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}
