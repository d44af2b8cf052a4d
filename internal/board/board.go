// Package board ties the catalog, the completion records and the filter
// together. It keeps the last filtered result and serves it by position.
package board

import (
	"sync"
	"time"

	"github.com/julianstephens/tracker/internal/catalog"
	"github.com/julianstephens/tracker/internal/completion"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

// Settings is the part of a store the board persists its filter mode in.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type Board struct {
	repo        *catalog.Repository
	completions *completion.Tracker
	settings    Settings
	now         func() time.Time

	mu        sync.Mutex
	query     filter.Query
	queried   bool
	sections  []models.TrackerCategory
	observers map[int]func()
	nextID    int
	cancels   []func()
}

// New returns a board that re-runs its last query whenever the catalog or the
// completion records change.
func New(repo *catalog.Repository, completions *completion.Tracker, settings Settings) *Board {
	b := &Board{
		repo:        repo,
		completions: completions,
		settings:    settings,
		now:         time.Now,
		observers:   make(map[int]func()),
	}
	b.cancels = []func(){
		repo.Subscribe(b.rerun),
		completions.Subscribe(b.rerun),
	}
	return b
}

// SetClock replaces the source of the current time.
func (b *Board) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// Now returns the current time according to the board's clock.
func (b *Board) Now() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.now()
}

// Close stops following catalog and completion changes.
func (b *Board) Close() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = nil
	b.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// OnChange registers fn to be called after every refresh. The returned func
// removes it.
func (b *Board) OnChange(fn func()) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.observers, id)
	}
}

// Refresh runs q against the current catalog and caches the result.
func (b *Board) Refresh(q filter.Query) error {
	now := b.Now()
	categories, err := b.repo.Categories()
	if err != nil {
		return err
	}

	var completed func(string) bool
	if q.Mode == filter.ModeCompleted || q.Mode == filter.ModeUncompleted {
		done, err := b.completions.CompletedOn(q.ReferenceDate(now))
		if err != nil {
			return err
		}
		completed = func(id string) bool { return done[id] }
	}
	sections := filter.Apply(categories, q, completed, now)

	b.mu.Lock()
	b.query = q
	b.queried = true
	b.sections = sections
	fns := make([]func(), 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// Query returns the query behind the cached result.
func (b *Board) Query() filter.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

func (b *Board) rerun() {
	b.mu.Lock()
	q, queried := b.query, b.queried
	b.mu.Unlock()
	if !queried {
		return
	}
	if err := b.Refresh(q); err != nil {
		logger.Error("Failed to refresh board", "error", err)
	}
}

func (b *Board) NumberOfSections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sections)
}

func (b *Board) NumberOfRows(section int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if section < 0 || section >= len(b.sections) {
		return 0
	}
	return len(b.sections[section].Trackers)
}

// Object returns the tracker at the given position.
func (b *Board) Object(section, row int) (models.Tracker, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.valid(section, row) {
		return models.Tracker{}, false
	}
	return b.sections[section].Trackers[row], true
}

func (b *Board) SectionTitle(section int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if section < 0 || section >= len(b.sections) {
		return ""
	}
	return b.sections[section].Title
}

// GetCategory returns the title of the category holding the tracker at the
// given position.
func (b *Board) GetCategory(section, row int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.valid(section, row) {
		return "", false
	}
	return b.sections[section].Title, true
}

func (b *Board) valid(section, row int) bool {
	return section >= 0 && section < len(b.sections) &&
		row >= 0 && row < len(b.sections[section].Trackers)
}

// Sections returns a copy of the cached result.
func (b *Board) Sections() []models.TrackerCategory {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.TrackerCategory, len(b.sections))
	for i, s := range b.sections {
		out[i] = models.TrackerCategory{
			Title:    s.Title,
			Trackers: append([]models.Tracker(nil), s.Trackers...),
		}
	}
	return out
}

func (b *Board) checkNotFuture(date time.Time) error {
	if utils.IsAfterDay(date, b.Now()) {
		return apperrors.Validation("cannot change completion for a future date (%s)", utils.DayKey(date))
	}
	return nil
}

// MarkDone records the tracker as done on date and, for irregular events,
// narrows the schedule to that weekday. If narrowing fails a newly created
// record is removed again.
func (b *Board) MarkDone(id string, date time.Time) (completion.MarkResult, error) {
	if err := b.checkNotFuture(date); err != nil {
		return completion.MarkResult{}, err
	}
	tracker, _, err := b.repo.GetTracker(id)
	if err != nil {
		return completion.MarkResult{}, err
	}

	result, err := b.completions.MarkDone(tracker, date)
	if err != nil {
		return result, err
	}
	if result.Narrow == nil {
		return result, nil
	}
	if err := b.repo.NarrowSchedule(id, *result.Narrow); err != nil {
		if result.Created {
			if _, undoErr := b.completions.MarkUndone(tracker, date); undoErr != nil {
				logger.Error("Failed to undo record after schedule update failed", "tracker", id, "error", undoErr)
			}
		}
		return completion.MarkResult{}, err
	}
	return result, nil
}

// MarkUndone removes the tracker's record for date. An irregular event left
// without records is scheduled every day again. If that update fails the
// record is restored.
func (b *Board) MarkUndone(id string, date time.Time) (completion.MarkResult, error) {
	if err := b.checkNotFuture(date); err != nil {
		return completion.MarkResult{}, err
	}
	tracker, _, err := b.repo.GetTracker(id)
	if err != nil {
		return completion.MarkResult{}, err
	}

	result, err := b.completions.MarkUndone(tracker, date)
	if err != nil {
		return result, err
	}
	if result.Narrow == nil {
		return result, nil
	}
	if err := b.repo.NarrowSchedule(id, *result.Narrow); err != nil {
		if _, redoErr := b.completions.MarkDone(tracker, date); redoErr != nil {
			logger.Error("Failed to restore record after schedule update failed", "tracker", id, "error", redoErr)
		}
		return completion.MarkResult{}, err
	}
	return result, nil
}

// Toggle marks the tracker done on date, or undone if it already was, and
// reports the new state.
func (b *Board) Toggle(id string, date time.Time) (bool, error) {
	done, err := b.completions.IsCompletedOn(id, date)
	if err != nil {
		return false, err
	}
	if done {
		_, err = b.MarkUndone(id, date)
	} else {
		_, err = b.MarkDone(id, date)
	}
	if err != nil {
		return done, err
	}
	return !done, nil
}

// View is what a row needs to render a tracker.
type View struct {
	Tracker       models.Tracker
	Category      string
	Pinned        bool
	Completed     bool
	DaysCompleted int
}

func (b *Board) TrackerView(id string, date time.Time) (View, error) {
	tracker, category, err := b.repo.GetTracker(id)
	if err != nil {
		return View{}, err
	}
	completed, err := b.completions.IsCompletedOn(id, date)
	if err != nil {
		return View{}, err
	}
	days, err := b.completions.CompletedDayCount(id)
	if err != nil {
		return View{}, err
	}
	return View{
		Tracker:       tracker,
		Category:      category,
		Pinned:        category == constants.PinnedCategoryTitle,
		Completed:     completed,
		DaysCompleted: days,
	}, nil
}

// SavedMode returns the persisted filter mode, or today when none is saved.
func (b *Board) SavedMode() filter.Mode {
	value, err := b.settings.GetSetting(constants.SettingChosenFilter)
	if err != nil {
		logger.Warn("Failed to read chosen filter", "error", err)
		return filter.ModeToday
	}
	if value == "" {
		return filter.ModeToday
	}
	mode, err := filter.ParseMode(value)
	if err != nil {
		logger.Warn("Ignoring invalid chosen filter", "value", value)
		return filter.ModeToday
	}
	return mode
}

func (b *Board) SaveMode(mode filter.Mode) error {
	if _, err := filter.ParseMode(string(mode)); err != nil || mode == "" {
		return apperrors.Validation("invalid filter mode %q", mode)
	}
	if err := b.settings.SetSetting(constants.SettingChosenFilter, string(mode)); err != nil {
		return apperrors.Storage("save chosen filter", err)
	}
	return nil
}

// TrackerStat is one tracker's completion total.
type TrackerStat struct {
	Tracker  models.Tracker
	Category string
	Days     int
}

type Stats struct {
	// CompletedTrackers counts trackers completed at least once.
	CompletedTrackers int
	Trackers          []TrackerStat
}

func (b *Board) Stats() (Stats, error) {
	total, err := b.completions.TotalUniqueCompletedTrackers()
	if err != nil {
		return Stats{}, err
	}
	categories, err := b.repo.Categories()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{CompletedTrackers: total}
	for _, c := range categories {
		for _, t := range c.Trackers {
			days, err := b.completions.CompletedDayCount(t.ID)
			if err != nil {
				return Stats{}, err
			}
			stats.Trackers = append(stats.Trackers, TrackerStat{Tracker: t, Category: c.Title, Days: days})
		}
	}
	return stats, nil
}
