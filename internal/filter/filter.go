// Package filter selects the categories and trackers to show for a day.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
)

type Mode string

const (
	ModeAll         Mode = constants.FilterAll
	ModeToday       Mode = constants.FilterToday
	ModeCompleted   Mode = constants.FilterCompleted
	ModeUncompleted Mode = constants.FilterUncompleted
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeAll, ModeToday, ModeCompleted, ModeUncompleted}
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAll, ModeToday, ModeCompleted, ModeUncompleted:
		return m, nil
	case "":
		return ModeAll, nil
	default:
		return "", fmt.Errorf("invalid filter mode: %s (must be all, today, completed, or uncompleted)", s)
	}
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	modes := Modes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return ModeAll
}

func (m Mode) String() string {
	return string(m)
}

// Query describes what to show.
type Query struct {
	// Weekday uses calendar numbering, 1 = Sunday through 7 = Saturday.
	// Zero or an out of range value means the weekday of Date.
	Weekday int
	// Date is the day completion state is read for. Zero means now.
	Date       time.Time
	SearchText string
	Mode       Mode
}

// ReferenceDate returns the day q is evaluated against.
func (q Query) ReferenceDate(now time.Time) time.Time {
	if q.Mode == ModeToday || q.Date.IsZero() {
		return now
	}
	return q.Date
}

// ReferenceWeekDay returns the weekday habits are matched against. The today
// mode always uses the weekday of now.
func (q Query) ReferenceWeekDay(now time.Time) models.WeekDay {
	if q.Mode != ModeToday && q.Weekday != 0 {
		if d, err := models.WeekDayFromCalendar(q.Weekday); err == nil {
			return d
		}
	}
	return models.WeekDayOf(q.ReferenceDate(now))
}

// Apply returns the categories and trackers visible under q.
//
// Trackers in the Pinned category are always shown unless the search text
// excludes them. Other trackers must be scheduled on the reference weekday
// and, in the completed and uncompleted modes, match completed for the
// reference date. A nil completed treats every tracker as not completed.
// Categories left empty are dropped. Pinned comes first; the rest keep their
// input order, as do the trackers within each category.
func Apply(categories []models.TrackerCategory, q Query, completed func(trackerID string) bool, now time.Time) []models.TrackerCategory {
	day := q.ReferenceWeekDay(now)
	search := strings.ToLower(strings.TrimSpace(q.SearchText))
	if completed == nil {
		completed = func(string) bool { return false }
	}

	var pinned []models.TrackerCategory
	result := make([]models.TrackerCategory, 0, len(categories))
	for _, c := range categories {
		visible := make([]models.Tracker, 0, len(c.Trackers))
		for _, t := range c.Trackers {
			if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
				continue
			}
			if !c.IsPinned() && !matches(t, day, q.Mode, completed) {
				continue
			}
			visible = append(visible, t)
		}
		if len(visible) == 0 {
			continue
		}

		filtered := models.TrackerCategory{Title: c.Title, Trackers: visible}
		if c.IsPinned() {
			pinned = append(pinned, filtered)
		} else {
			result = append(result, filtered)
		}
	}
	return append(pinned, result...)
}

func matches(t models.Tracker, day models.WeekDay, mode Mode, completed func(string) bool) bool {
	if !t.Schedule.Contains(day) {
		return false
	}
	switch mode {
	case ModeCompleted:
		return completed(t.ID)
	case ModeUncompleted:
		return !completed(t.ID)
	default:
		return true
	}
}
