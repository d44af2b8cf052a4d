package storage

import (
	"errors"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
)

var (
	// ErrNotFound is returned when a tracker or category does not exist.
	ErrNotFound = apperrors.ErrNotFound
	// ErrDuplicateName is returned when a category title is already taken.
	ErrDuplicateName = apperrors.ErrDuplicateName
	// ErrCategoryNotEmpty is returned when deleting a category that still
	// owns trackers.
	ErrCategoryNotEmpty = errors.New("category is not empty")
)

// Provider is the record store behind the catalog. Every mutating method
// runs in a single transaction: it either fully applies or leaves the store
// unchanged.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Categories
	AddCategory(title string) error
	// GetAllCategories returns every category with its trackers. Order is
	// unspecified; callers sort.
	GetAllCategories() ([]models.TrackerCategory, error)
	CategoryExists(title string) (bool, error)
	DeleteCategory(title string) error

	// Trackers
	// AddTracker stores a new tracker under categoryTitle, creating the
	// category if it does not exist.
	AddTracker(tracker models.Tracker, categoryTitle string) error
	// GetTracker returns the tracker and the title of the category that owns it.
	GetTracker(id string) (models.Tracker, string, error)
	// UpdateTracker overwrites every mutable field of the tracker and moves
	// it to categoryTitle, creating that category if needed.
	UpdateTracker(tracker models.Tracker, categoryTitle string) error
	// DeleteTracker removes the tracker and all of its records.
	DeleteTracker(id string) error

	// Records
	// AddRecord stores a completion for the record's calendar day. It returns
	// false when the tracker already has a record for that day.
	AddRecord(record models.TrackerRecord) (bool, error)
	// DeleteRecords removes the tracker's records for day (YYYY-MM-DD) and
	// returns how many were removed.
	DeleteRecords(trackerID, day string) (int, error)
	HasRecord(trackerID, day string) (bool, error)
	CountRecords(trackerID string) (int, error)
	// CountCompletedTrackers returns the number of distinct trackers with at
	// least one record.
	CountCompletedTrackers() (int, error)
	GetRecordsForDay(day string) ([]models.TrackerRecord, error)

	// Settings
	// GetSetting returns "" and no error when the key is unset.
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}
