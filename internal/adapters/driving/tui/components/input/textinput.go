// Package input provides the query input of the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/styles"
)

const (
	charLimit     = 512
	minInputWidth = 20
	labelWidth    = 10
)

// SearchInput wraps a bubbles textinput with the query prompt.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewSearchInput creates a focused query input.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask your notes..."
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input with its label.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	field := s.styles.InputField.Render(s.textinput.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current query.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue replaces the query.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus gives the input keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sizes the field to the terminal width.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-labelWidth-4, minInputWidth)
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}
