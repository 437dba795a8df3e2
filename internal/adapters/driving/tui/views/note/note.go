// Package note shows the full note behind a search hit.
package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/keymap"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/messages"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/styles"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
)

// ErrNoNoteService indicates that no note service was provided.
var ErrNoNoteService = errors.New("note service is required")

// reservedLines is the rows taken by title, meta, separator and help.
const reservedLines = 7

// line is one wrapped display row; match marks rows of the hit chunk.
type line struct {
	text  string
	match bool
}

// View displays a note body with the matching chunk marked.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	noteService driving.NoteService
	ctx         context.Context

	result       *domain.SearchResult
	note         *domain.Note
	lines        []line
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a note view.
func NewView(s *styles.Styles, km *keymap.KeyMap, noteService driving.NoteService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:      s,
		keymap:      km,
		noteService: noteService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context notes are loaded under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetResult shows the note behind result and returns the command loading it.
func (v *View) SetResult(result domain.SearchResult) tea.Cmd {
	v.result = &result
	v.note = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	svc, ctx, path := v.noteService, v.ctx, result.Chunk.NotePath
	return func() tea.Msg {
		if svc == nil {
			return messages.NoteLoaded{Path: path, Err: ErrNoNoteService}
		}
		n, err := svc.Get(ctx, path)
		return messages.NoteLoaded{Path: path, Note: n, Err: err}
	}
}

// Update handles messages for the note view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.NoteLoaded:
		// Ignore a late load for a note the user already left.
		if v.result == nil || msg.Path != v.result.Chunk.NotePath {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.note = msg.Note
		v.layout()
		v.scrollOffset = min(v.firstMatch(), v.maxScrollOffset())
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
	case keymap.Matches(k, v.keymap.Up):
		v.scrollOffset = max(v.scrollOffset-1, 0)
	case keymap.Matches(k, v.keymap.Down):
		v.scrollOffset = min(v.scrollOffset+1, v.maxScrollOffset())
	case keymap.Matches(k, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case keymap.Matches(k, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case keymap.Matches(k, v.keymap.Top):
		v.scrollOffset = 0
	case keymap.Matches(k, v.keymap.Bottom):
		v.scrollOffset = v.maxScrollOffset()
	}
	return v, nil
}

// layout wraps the body to the view width and marks the hit chunk.
func (v *View) layout() {
	v.lines = nil
	if v.note == nil {
		return
	}

	width := max(v.width-4, 20)
	start, end := matchSpan(v.note.Body, v.chunkText())
	offset := 0
	for _, raw := range strings.Split(v.note.Body, "\n") {
		lineStart := offset
		offset += len(raw) + 1
		match := start >= 0 && lineStart < end && offset-1 >= start
		for _, w := range strings.Split(ansi.Wrap(raw, width, " "), "\n") {
			v.lines = append(v.lines, line{text: w, match: match})
		}
	}
}

func (v *View) chunkText() string {
	if v.result == nil {
		return ""
	}
	return v.result.Chunk.Text
}

// matchSpan locates chunk in body, returning -1 when it cannot be found.
// Chunks rejoin paragraphs with a plain blank line, so when the whole text
// is not found verbatim only its first line is marked.
func matchSpan(body, chunk string) (int, int) {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return -1, -1
	}
	if i := strings.Index(body, chunk); i >= 0 {
		return i, i + len(chunk)
	}
	first, _, _ := strings.Cut(chunk, "\n")
	if i := strings.Index(body, first); i >= 0 {
		return i, i + len(first)
	}
	return -1, -1
}

func (v *View) firstMatch() int {
	for i, l := range v.lines {
		if l.match {
			return i
		}
	}
	return 0
}

func (v *View) visibleLines() int {
	return max(v.height-reservedLines, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the note.
func (v *View) View() string {
	var b strings.Builder

	title := "Note"
	if v.note != nil {
		title = v.note.Title
	} else if v.result != nil && v.result.Chunk.NoteTitle != "" {
		title = v.result.Chunk.NoteTitle
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	if v.note != nil {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("created %s · updated %s · %s",
			v.note.CreatedString(), v.note.UpdatedString(), v.note.Path)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading note..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(empty note)"))
		b.WriteString("\n")
	default:
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		for _, l := range v.lines[v.scrollOffset:end] {
			if l.match {
				b.WriteString(v.styles.Match.Render(l.text))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + l.text))
			}
			b.WriteString("\n")
		}
		if len(v.lines) > v.visibleLines() {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  line %d-%d of %d",
				v.scrollOffset+1, end, len(v.lines))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	bindings := v.keymap.NoteHelp()
	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		hints = append(hints, helpText(kb))
	}
	return v.styles.Help.Render(strings.Join(hints, "  "))
}

func helpText(kb key.Binding) string {
	h := kb.Help()
	return "[" + h.Key + "] " + h.Desc
}

// SetDimensions sets the view dimensions and rewraps the note.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Note returns the loaded note, or nil.
func (v *View) Note() *domain.Note {
	return v.note
}

// ScrollOffset returns the first visible wrapped line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
