package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = docStyle.Render(m.list.View())
	}

	parts := []string{m.viewHeader()}
	if m.state == StateSearch || m.searchText != "" {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, content)
	if m.status != "" {
		parts = append(parts, m.viewStatus())
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	date := m.day()
	day := utils.DayKey(date)
	if utils.SameDay(date, m.board.Now()) {
		day = "Today"
	}
	title := fmt.Sprintf("%s · %s", models.WeekDayOf(date), day)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(title),
		modeStyle.Render(fmt.Sprintf("filter: %s", m.mode)),
	)
}

func (m Model) viewStatus() string {
	if m.statusIsError {
		return dangerStyle.Render("✗ " + m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-chrome, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its history?", m.pendingDelete.Name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
