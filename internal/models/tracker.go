package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
)

type TrackerType string

const (
	TrackerTypeHabit          TrackerType = constants.TrackerTypeHabit
	TrackerTypeIrregularEvent TrackerType = constants.TrackerTypeIrregularEvent
)

func (t TrackerType) Valid() bool {
	return t == TrackerTypeHabit || t == TrackerTypeIrregularEvent
}

func (t TrackerType) IsEvent() bool {
	return t == TrackerTypeIrregularEvent
}

// Label returns a human readable name for the type.
func (t TrackerType) Label() string {
	switch t {
	case TrackerTypeHabit:
		return "habit"
	case TrackerTypeIrregularEvent:
		return "event"
	default:
		return string(t)
	}
}

// ParseTrackerType accepts the persisted names plus "event" for irregular events.
func ParseTrackerType(s string) (TrackerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "habit":
		return TrackerTypeHabit, nil
	case "event", "irregularevent", "irregular":
		return TrackerTypeIrregularEvent, nil
	default:
		return "", fmt.Errorf("invalid tracker type: %s (must be habit or event)", s)
	}
}

type Tracker struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Color    Color       `json:"color"`
	Emoji    string      `json:"emoji"`
	Schedule Schedule    `json:"schedule"`
	Type     TrackerType `json:"type"`
	// OriginalCategory is the category a pinned tracker came from. Empty
	// unless the tracker is pinned.
	OriginalCategory string    `json:"original_category,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewTracker creates a tracker with a fresh id. Events with no schedule start
// out scheduled every day until their first completion.
func NewTracker(name string, trackerType TrackerType, schedule Schedule, color Color, emoji string) Tracker {
	if trackerType.IsEvent() && schedule.IsEmpty() {
		schedule = EveryDay()
	}
	return Tracker{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Color:     color,
		Emoji:     emoji,
		Schedule:  schedule,
		Type:      trackerType,
		CreatedAt: time.Now().UTC(),
	}
}

func (t *Tracker) Validate() error {
	if t.ID == "" {
		return apperrors.Validation("tracker id cannot be empty")
	}
	if strings.TrimSpace(t.Name) == "" {
		return apperrors.Validation("tracker name cannot be empty")
	}
	if !t.Type.Valid() {
		return apperrors.Validation("invalid tracker type %q", t.Type)
	}
	if t.Schedule.IsEmpty() {
		return apperrors.Validation("tracker %q has an empty schedule", t.Name)
	}
	return nil
}

// IsPinned reports whether the tracker remembers an origin category, which
// only pinned trackers do.
func (t *Tracker) IsPinned() bool {
	return t.OriginalCategory != ""
}

// ScheduledOn reports whether the tracker's schedule contains the weekday of date.
func (t *Tracker) ScheduledOn(date time.Time) bool {
	return t.Schedule.Contains(WeekDayOf(date))
}

// Label returns the emoji and name for display.
func (t *Tracker) Label() string {
	if t.Emoji == "" {
		return t.Name
	}
	return t.Emoji + " " + t.Name
}
