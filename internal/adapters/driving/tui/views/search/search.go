// Package search is the query and results view of the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/components/input"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/components/list"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/components/status"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/keymap"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/messages"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/styles"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
)

// chromeHeight is the rows taken by the header, input and status bar.
const chromeHeight = 9

// View is the search view: a query input over a result list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	limit         int
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // typing a query rather than browsing results
}

// NewView creates a search view. limit caps the number of hits;
// zero uses the service default.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	limit int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		limit:         limit,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(query)
		}
		if msg.Type == tea.KeyEsc && !v.list.IsEmpty() {
			v.browseResults()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Open):
		if res := v.list.SelectedResult(); res != nil {
			selected := *res
			return v, func() tea.Msg { return messages.ResultSelected{Result: selected} }
		}
		return v, nil
	case keymap.Matches(key, v.keymap.NewSearch), keymap.Matches(key, v.keymap.Back):
		v.editQuery()
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
	}
	return v, nil
}

// performSearch runs the query off the UI goroutine.
func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx, limit := v.searchService, v.ctx, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, domain.SearchOptions{Limit: limit})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	if len(msg.Results) > 0 {
		v.browseResults()
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) browseResults() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetHints(v.keymap.ResultsHelp())
}

func (v *View) editQuery() {
	v.focusInput = true
	v.statusbar.SetHints(v.keymap.InputHelp())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("fireforget"),
		"",
		v.input.View(),
		"",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sizes the view and its components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-chromeHeight)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the last search error.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether keys go to the query input.
func (v *View) InputFocused() bool {
	return v.focusInput
}
