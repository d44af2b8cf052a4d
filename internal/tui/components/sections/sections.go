package sections

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracker/internal/board"
)

type ToggleMsg struct {
	ID string
}

type PinMsg struct {
	ID     string
	Pinned bool
}

type DeleteMsg struct {
	ID   string
	Name string
}

type Section struct {
	Title string
	Rows  []board.View
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Pin    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done/undone"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
)

// Model is a sectioned list of trackers with a single cursor that skips
// section headers.
type Model struct {
	sections []Section
	keys     KeyMap
	cursor   int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		keys:   DefaultKeyMap(),
		width:  width,
		height: height,
	}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetSections replaces the rows. The cursor stays on the same tracker when it
// is still listed.
func (m *Model) SetSections(sections []Section) {
	selected, ok := m.Selected()
	m.sections = sections

	if ok {
		i := 0
		for _, s := range sections {
			for _, row := range s.Rows {
				if row.Tracker.ID == selected.Tracker.ID {
					m.cursor = i
					return
				}
				i++
			}
		}
	}
	m.cursor = min(m.cursor, max(m.Len()-1, 0))
}

func (m Model) Len() int {
	n := 0
	for _, s := range m.sections {
		n += len(s.Rows)
	}
	return n
}

// Rows returns every row in display order.
func (m Model) Rows() []board.View {
	rows := make([]board.View, 0, m.Len())
	for _, s := range m.sections {
		rows = append(rows, s.Rows...)
	}
	return rows
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Selected() (board.View, bool) {
	i := m.cursor
	for _, s := range m.sections {
		if i < len(s.Rows) {
			return s.Rows[i], true
		}
		i -= len(s.Rows)
	}
	return board.View{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.Len()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if v, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleMsg{ID: v.Tracker.ID} }
		}
	case key.Matches(keyMsg, m.keys.Pin):
		if v, ok := m.Selected(); ok {
			return m, func() tea.Msg { return PinMsg{ID: v.Tracker.ID, Pinned: v.Pinned} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if v, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteMsg{ID: v.Tracker.ID, Name: v.Tracker.Name} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.Len() == 0 {
		return pendingStyle.Render("Nothing to track. Add a tracker with `tracker tracker add`.")
	}

	var lines []string
	cursorLine := 0
	i := 0
	for _, s := range m.sections {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, titleStyle.Render(s.Title))
		for _, row := range s.Rows {
			if i == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, renderRow(row, i == m.cursor))
			i++
		}
	}

	return strings.Join(window(lines, cursorLine, m.height), "\n")
}

func renderRow(v board.View, selected bool) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("› ")
	}
	check := pendingStyle.Render("○")
	if v.Completed {
		check = doneStyle.Render("✓")
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Tracker.Color.Hex())).Render("●")

	label := v.Tracker.Label()
	if selected {
		label = selectedStyle.Render(label)
	}

	days := fmt.Sprintf("%d days", v.DaysCompleted)
	if v.DaysCompleted == 1 {
		days = "1 day"
	}
	details := detailStyle.Render(fmt.Sprintf("%s · %s", v.Tracker.Schedule, days))

	return fmt.Sprintf("%s%s %s %s  %s", cursor, check, swatch, label, details)
}

// window keeps the line at focus visible when lines do not fit in height.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(focus-height/2, 0)
	end := start + height
	if end > len(lines) {
		end = len(lines)
		start = end - height
	}
	return lines[start:end]
}
