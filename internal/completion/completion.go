// Package completion records which trackers were done on which calendar day.
package completion

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

// MarkResult describes what a mark or unmark did.
//
// Narrow is set when an irregular event's schedule must change as a
// consequence: after its first completion it collapses to the weekday it
// was done on, and once it has no completions left it is pending again on
// every day. Later completions on other days leave the schedule alone. The tracker does not apply Narrow itself; the caller updates
// the catalog.
type MarkResult struct {
	Created bool
	Removed int
	Narrow  *models.Schedule
}

type Tracker struct {
	store storage.Provider

	mu        sync.Mutex
	observers map[int]func()
	nextID    int
}

func New(store storage.Provider) *Tracker {
	return &Tracker{
		store:     store,
		observers: make(map[int]func()),
	}
}

// Subscribe registers fn to be called after records change. The returned
// func removes the subscription.
func (c *Tracker) Subscribe(fn func()) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Tracker) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// MarkDone records tracker as done on date's calendar day. Marking the same
// day twice creates only one record. Dates in the future are not rejected.
func (c *Tracker) MarkDone(tracker models.Tracker, date time.Time) (MarkResult, error) {
	created, err := c.store.AddRecord(models.NewRecord(tracker.ID, date))
	if err != nil {
		return MarkResult{}, wrap("add record", err)
	}

	result := MarkResult{Created: created}
	if tracker.Type.IsEvent() {
		// only the first completed day decides the weekday
		total, err := c.store.CountRecords(tracker.ID)
		if err != nil {
			return result, wrap("count records", err)
		}
		narrowed := models.NewSchedule(models.WeekDayOf(date))
		if total == 1 && tracker.Schedule != narrowed {
			result.Narrow = &narrowed
		}
	}

	logger.Debug("Marked tracker done", "tracker", tracker.ID, "day", utils.DayKey(date), "created", created)
	if created {
		c.notify()
	}
	return result, nil
}

// MarkUndone removes the tracker's record for date's calendar day, if any.
func (c *Tracker) MarkUndone(tracker models.Tracker, date time.Time) (MarkResult, error) {
	removed, err := c.store.DeleteRecords(tracker.ID, utils.DayKey(date))
	if err != nil {
		return MarkResult{}, wrap("delete records", err)
	}

	result := MarkResult{Removed: removed}
	if removed > 0 && tracker.Type.IsEvent() {
		remaining, err := c.store.CountRecords(tracker.ID)
		if err != nil {
			return result, wrap("count records", err)
		}
		if remaining == 0 && !tracker.Schedule.IsEveryDay() {
			everyDay := models.EveryDay()
			result.Narrow = &everyDay
		}
	}

	logger.Debug("Marked tracker undone", "tracker", tracker.ID, "day", utils.DayKey(date), "removed", removed)
	if removed > 0 {
		c.notify()
	}
	return result, nil
}

// IsCompletedOn reports whether the tracker has a record on date's calendar day.
func (c *Tracker) IsCompletedOn(trackerID string, date time.Time) (bool, error) {
	has, err := c.store.HasRecord(trackerID, utils.DayKey(date))
	if err != nil {
		return false, wrap("has record", err)
	}
	return has, nil
}

// CompletedDayCount returns how many days the tracker has been completed.
func (c *Tracker) CompletedDayCount(trackerID string) (int, error) {
	n, err := c.store.CountRecords(trackerID)
	if err != nil {
		return 0, wrap("count records", err)
	}
	return n, nil
}

// TotalUniqueCompletedTrackers returns how many distinct trackers have ever
// been completed.
func (c *Tracker) TotalUniqueCompletedTrackers() (int, error) {
	n, err := c.store.CountCompletedTrackers()
	if err != nil {
		return 0, wrap("count completed trackers", err)
	}
	return n, nil
}

// CompletedOn returns the ids of every tracker completed on date's calendar day.
func (c *Tracker) CompletedOn(date time.Time) (map[string]bool, error) {
	records, err := c.store.GetRecordsForDay(utils.DayKey(date))
	if err != nil {
		return nil, wrap("records for day", err)
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.TrackerID] = true
	}
	return done, nil
}

// wrap keeps not-found failures as they are and marks everything else as a
// storage failure.
func wrap(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return apperrors.Storage(op, err)
}
