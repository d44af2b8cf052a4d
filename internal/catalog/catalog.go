// Package catalog owns the categories and trackers and mediates every
// structural change to them.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

// Repository is the single source of truth for categories and trackers.
// Calls are serialized; observers run after a successful mutation, outside
// the lock, on the caller's goroutine.
type Repository struct {
	store storage.Provider

	mu        sync.Mutex
	observers map[int]func()
	nextID    int
}

func New(store storage.Provider) *Repository {
	return &Repository{
		store:     store,
		observers: make(map[int]func()),
	}
}

// Subscribe registers fn to be called after the catalog changes. The
// returned func removes the subscription.
func (r *Repository) Subscribe(fn func()) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.observers, id)
	}
}

func (r *Repository) notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.observers))
	for _, fn := range r.observers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// mutate runs fn under the lock and notifies observers if fn reports a change.
func (r *Repository) mutate(fn func() (bool, error)) error {
	r.mu.Lock()
	changed, err := fn()
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if changed {
		r.notify()
	}
	return nil
}

// Categories returns every category with its trackers, Pinned first and the
// rest ordered by title.
func (r *Repository) Categories() ([]models.TrackerCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories()
}

func (r *Repository) categories() ([]models.TrackerCategory, error) {
	categories, err := r.store.GetAllCategories()
	if err != nil {
		return nil, wrap("load categories", err)
	}
	models.SortCategories(categories)
	return categories, nil
}

// LoadAllCategories is Categories for callers that cannot handle an error.
// A storage failure is logged and yields an empty catalog.
func (r *Repository) LoadAllCategories() []models.TrackerCategory {
	categories, err := r.Categories()
	if err != nil {
		logger.Error("Failed to load categories", "error", err)
		return []models.TrackerCategory{}
	}
	return categories
}

// GetTracker returns the tracker with the given id and the title of the
// category it is in.
func (r *Repository) GetTracker(id string) (models.Tracker, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tracker, category, err := r.store.GetTracker(id)
	if err != nil {
		return models.Tracker{}, "", wrap("get tracker", err)
	}
	return tracker, category, nil
}

// Find resolves ref to a tracker, first as an id and then as a
// case-insensitive name. A name shared by several trackers is rejected.
func (r *Repository) Find(ref string) (models.Tracker, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Tracker{}, "", apperrors.Validation("tracker reference cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tracker, category, err := r.store.GetTracker(ref)
	if err == nil {
		return tracker, category, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Tracker{}, "", wrap("get tracker", err)
	}

	categories, err := r.store.GetAllCategories()
	if err != nil {
		return models.Tracker{}, "", wrap("load categories", err)
	}
	var (
		found   models.Tracker
		foundIn string
		matches int
	)
	for _, c := range categories {
		for _, t := range c.Trackers {
			if strings.EqualFold(t.Name, ref) {
				found, foundIn = t, c.Title
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return models.Tracker{}, "", apperrors.NotFound("tracker %q", ref)
	case 1:
		return found, foundIn, nil
	default:
		return models.Tracker{}, "", apperrors.Validation("%d trackers are named %q, use the id instead", matches, ref)
	}
}

// CreateTracker validates and stores a new tracker in categoryTitle, creating
// the category if it does not exist.
func (r *Repository) CreateTracker(tracker models.Tracker, categoryTitle string) error {
	categoryTitle = strings.TrimSpace(categoryTitle)
	if err := validateUserTitle(categoryTitle); err != nil {
		return err
	}
	if err := tracker.Validate(); err != nil {
		return err
	}
	tracker.OriginalCategory = ""

	return r.mutate(func() (bool, error) {
		if err := r.store.AddTracker(tracker, categoryTitle); err != nil {
			return false, wrap("add tracker", err)
		}
		logger.Info("Created tracker", "id", tracker.ID, "name", tracker.Name, "category", categoryTitle)
		return true, nil
	})
}

// UpdateTracker replaces the mutable fields of an existing tracker and moves
// it to categoryTitle. An empty title keeps the current category. A pinned
// tracker stays pinned and categoryTitle becomes the category it returns to
// when unpinned.
func (r *Repository) UpdateTracker(tracker models.Tracker, categoryTitle string) error {
	categoryTitle = strings.TrimSpace(categoryTitle)
	if err := tracker.Validate(); err != nil {
		return err
	}

	return r.mutate(func() (bool, error) {
		existing, current, err := r.store.GetTracker(tracker.ID)
		if err != nil {
			return false, wrap("get tracker", err)
		}

		tracker.OriginalCategory = existing.OriginalCategory
		target := current
		switch {
		case current == constants.PinnedCategoryTitle:
			if categoryTitle != "" && categoryTitle != constants.PinnedCategoryTitle {
				tracker.OriginalCategory = categoryTitle
			}
		case categoryTitle == constants.PinnedCategoryTitle:
			return false, apperrors.Validation("use pin to move a tracker into %q", constants.PinnedCategoryTitle)
		case categoryTitle != "":
			target = categoryTitle
		}

		if err := r.store.UpdateTracker(tracker, target); err != nil {
			return false, wrap("update tracker", err)
		}
		logger.Info("Updated tracker", "id", tracker.ID, "category", target)
		return true, nil
	})
}

// DeleteTracker removes a tracker together with all of its completion records.
func (r *Repository) DeleteTracker(id string) error {
	return r.mutate(func() (bool, error) {
		if err := r.store.DeleteTracker(id); err != nil {
			return false, wrap("delete tracker", err)
		}
		logger.Info("Deleted tracker", "id", id)
		return true, nil
	})
}

// PinTracker moves a tracker into the Pinned category or back out of it.
//
// Pinning remembers the tracker's category unless one is already remembered.
// Unpinning moves it back to that category, recreating it if needed, and
// forgets it. Pinning a pinned tracker or unpinning an unpinned one does
// nothing. Either direction is a single store update.
func (r *Repository) PinTracker(id string, pin bool) error {
	return r.mutate(func() (bool, error) {
		tracker, current, err := r.store.GetTracker(id)
		if err != nil {
			return false, wrap("get tracker", err)
		}
		pinned := current == constants.PinnedCategoryTitle
		if pinned == pin {
			return false, nil
		}

		target := constants.PinnedCategoryTitle
		if pin {
			if tracker.OriginalCategory == "" {
				tracker.OriginalCategory = current
			}
		} else {
			if tracker.OriginalCategory == "" {
				return false, apperrors.Validation("pinned tracker %q has no category to return to", tracker.Name)
			}
			target = tracker.OriginalCategory
			tracker.OriginalCategory = ""
		}

		if err := r.store.UpdateTracker(tracker, target); err != nil {
			return false, wrap("update tracker", err)
		}
		logger.Info("Moved tracker", "id", id, "from", current, "to", target)
		return true, nil
	})
}

// NarrowSchedule replaces a tracker's schedule. It is how an irregular
// event's schedule follows its completions.
func (r *Repository) NarrowSchedule(id string, schedule models.Schedule) error {
	if schedule.IsEmpty() {
		return apperrors.Validation("schedule cannot be empty")
	}
	return r.mutate(func() (bool, error) {
		tracker, category, err := r.store.GetTracker(id)
		if err != nil {
			return false, wrap("get tracker", err)
		}
		if tracker.Schedule == schedule {
			return false, nil
		}
		tracker.Schedule = schedule
		if err := r.store.UpdateTracker(tracker, category); err != nil {
			return false, wrap("update tracker", err)
		}
		logger.Debug("Narrowed schedule", "id", id, "schedule", schedule.Encode())
		return true, nil
	})
}

// AddCategory creates an empty category. Titles are unique and
// case-sensitive; the Pinned title is reserved.
func (r *Repository) AddCategory(title string) error {
	title = strings.TrimSpace(title)
	if err := validateUserTitle(title); err != nil {
		return err
	}
	return r.mutate(func() (bool, error) {
		if err := r.store.AddCategory(title); err != nil {
			return false, wrap("add category", err)
		}
		logger.Info("Created category", "title", title)
		return true, nil
	})
}

// IsSameName reports whether a category with exactly this title exists.
func (r *Repository) IsSameName(title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exists, err := r.store.CategoryExists(strings.TrimSpace(title))
	if err != nil {
		return false, wrap("category exists", err)
	}
	return exists, nil
}

// CategoryTitles returns the titles a tracker can be filed under, in order.
func (r *Repository) CategoryTitles() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories, err := r.store.GetAllCategories()
	if err != nil {
		return nil, wrap("load categories", err)
	}
	titles := make([]string, 0, len(categories))
	for _, c := range categories {
		if !c.IsPinned() {
			titles = append(titles, c.Title)
		}
	}
	sort.Strings(titles)
	return titles, nil
}

// DeleteCategory removes a category that has no trackers.
func (r *Repository) DeleteCategory(title string) error {
	if title == constants.PinnedCategoryTitle {
		return apperrors.Validation("category %q is reserved", title)
	}
	return r.mutate(func() (bool, error) {
		if err := r.store.DeleteCategory(title); err != nil {
			return false, wrap("delete category", err)
		}
		logger.Info("Deleted category", "title", title)
		return true, nil
	})
}

func validateUserTitle(title string) error {
	if title == "" {
		return apperrors.Validation("category title cannot be empty")
	}
	if title == constants.PinnedCategoryTitle {
		return apperrors.Validation("category %q is reserved", title)
	}
	return nil
}

// wrap maps store errors onto the catalog's error kinds.
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrDuplicateName):
		return err
	case errors.Is(err, storage.ErrCategoryNotEmpty):
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	default:
		return apperrors.Storage(op, err)
	}
}
