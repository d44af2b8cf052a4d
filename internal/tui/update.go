package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/tui/components/sections"
	"github.com/julianstephens/tracker/internal/utils"
)

// chrome is the number of lines taken by the header, status line and help.
const chrome = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - 4
		m.list.SetSize(msg.Width, max(msg.Height-chrome, 1))
		return m, nil

	case sections.ToggleMsg:
		day := m.day()
		done, err := m.board.Toggle(msg.ID, day)
		if err != nil {
			m.setError(err)
		} else if done {
			m.setStatus(fmt.Sprintf("Done on %s", utils.DayKey(day)))
		} else {
			m.setStatus(fmt.Sprintf("Not done on %s", utils.DayKey(day)))
		}
		m.refresh()
		return m, nil

	case sections.PinMsg:
		if err := m.repo.PinTracker(msg.ID, !msg.Pinned); err != nil {
			m.setError(err)
		} else if msg.Pinned {
			m.setStatus("Unpinned")
		} else {
			m.setStatus("Pinned")
		}
		m.refresh()
		return m, nil

	case sections.DeleteMsg:
		m.pendingDelete = msg
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateSearch:
			return m.updateSearch(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateBoard(msg)
	}

	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.PrevDay):
		m.moveDay(-1)
	case key.Matches(msg, m.keys.NextDay):
		m.moveDay(1)
	case key.Matches(msg, m.keys.Today):
		m.date = m.board.Now()
		m.mode = m.board.SavedMode()
		m.status = ""
		m.refresh()
	case key.Matches(msg, m.keys.Filter):
		m.mode = m.mode.Next()
		if m.mode == filter.ModeToday {
			m.date = m.board.Now()
		}
		if err := m.board.SaveMode(m.mode); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Showing %s", m.mode))
		}
		m.refresh()
	case key.Matches(msg, m.keys.Search):
		m.state = StateSearch
		m.search.SetValue(m.searchText)
		return m, m.search.Focus()
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateSearch filters as the user types. Enter keeps the text, esc clears it.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.state = StateBoard
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.state = StateBoard
		m.search.Blur()
		m.search.SetValue("")
		m.searchText = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.searchText {
		m.searchText = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if err := m.repo.DeleteTracker(m.pendingDelete.ID); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Deleted %s", m.pendingDelete.Name))
		}
		m.state = StateBoard
		m.pendingDelete = sections.DeleteMsg{}
		m.refresh()
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateBoard
		m.pendingDelete = sections.DeleteMsg{}
	}
	return m, nil
}
