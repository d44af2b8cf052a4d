package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tracker/internal/board"
	"github.com/julianstephens/tracker/internal/catalog"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/tui/components/sections"
	"github.com/julianstephens/tracker/internal/utils"
)

type SessionState int

const (
	StateBoard SessionState = iota
	StateSearch
	StateConfirmDelete
)

type Model struct {
	repo  *catalog.Repository
	board *board.Board

	state  SessionState
	keys   KeyMap
	help   help.Model
	list   sections.Model
	search textinput.Model

	date          time.Time
	mode          filter.Mode
	searchText    string
	status        string
	statusIsError bool
	pendingDelete sections.DeleteMsg

	width    int
	height   int
	quitting bool
}

func NewModel(repo *catalog.Repository, b *board.Board) Model {
	search := textinput.New()
	search.Placeholder = "Search trackers"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		repo:   repo,
		board:  b,
		state:  StateBoard,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		list:   sections.New(0, 0),
		search: search,
		date:   b.Now(),
		mode:   b.SavedMode(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	lk := m.list.Keys()
	switch m.state {
	case StateSearch:
		return []key.Binding{m.keys.Cancel}
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{lk.Toggle, lk.Pin, m.keys.Filter, m.keys.Search, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	lk := m.list.Keys()
	return [][]key.Binding{
		{lk.Up, lk.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today},
		{lk.Toggle, lk.Pin, lk.Delete},
		{m.keys.Filter, m.keys.Search, m.keys.Help, m.keys.Quit},
	}
}

func (m Model) query() filter.Query {
	return filter.Query{
		Date:       m.date,
		SearchText: m.searchText,
		Mode:       m.mode,
	}
}

// day is the date rows are read and toggled for.
func (m Model) day() time.Time {
	return m.query().ReferenceDate(m.board.Now())
}

// moveDay shifts the viewed date. Leaving today in the today mode shows all
// trackers for the chosen day without changing the saved mode.
func (m *Model) moveDay(days int) {
	m.date = m.day().AddDate(0, 0, days)
	if m.mode == filter.ModeToday && !utils.SameDay(m.date, m.board.Now()) {
		m.mode = filter.ModeAll
	}
	m.status = ""
	m.refresh()
}

// refresh re-runs the board query and rebuilds the visible rows.
func (m *Model) refresh() {
	if err := m.board.Refresh(m.query()); err != nil {
		m.setError(err)
		return
	}

	day := m.day()
	list := make([]sections.Section, 0, m.board.NumberOfSections())
	for s := range m.board.NumberOfSections() {
		section := sections.Section{Title: m.board.SectionTitle(s)}
		for r := range m.board.NumberOfRows(s) {
			tracker, ok := m.board.Object(s, r)
			if !ok {
				continue
			}
			view, err := m.board.TrackerView(tracker.ID, day)
			if err != nil {
				m.setError(err)
				return
			}
			section.Rows = append(section.Rows, view)
		}
		list = append(list, section)
	}
	m.list.SetSections(list)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	logger.Warn("tui action failed", "error", err)
	m.status = err.Error()
	m.statusIsError = true
}
