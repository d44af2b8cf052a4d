// Package memory is a storage.Provider kept entirely in memory. A store made
// with NewJSON also writes a JSON snapshot to disk after every mutation.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

const snapshotVersion = 1

type trackerEntry struct {
	Tracker  models.Tracker `json:"tracker"`
	Category string         `json:"category"`
}

type data struct {
	Version    int                        `json:"version"`
	Categories map[string]time.Time       `json:"categories"`
	Trackers   map[string]trackerEntry    `json:"trackers"`
	Records    map[string]map[string]bool `json:"records"` // tracker id -> day set
	Settings   map[string]string          `json:"settings"`
}

func newData() *data {
	return &data{
		Version:    snapshotVersion,
		Categories: make(map[string]time.Time),
		Trackers:   make(map[string]trackerEntry),
		Records:    make(map[string]map[string]bool),
		Settings:   make(map[string]string),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.Categories {
		c.Categories[k] = v
	}
	for k, v := range d.Trackers {
		c.Trackers[k] = v
	}
	for id, days := range d.Records {
		copied := make(map[string]bool, len(days))
		for day := range days {
			copied[day] = true
		}
		c.Records[id] = copied
	}
	for k, v := range d.Settings {
		c.Settings[k] = v
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	path string
	data *data
}

// New returns an initialized store that is never persisted.
func New() *Store {
	return &Store{data: newData()}
}

// NewJSON returns a store persisted to the JSON file at path. Call Init or
// Load before use.
func NewJSON(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.data == nil {
			s.data = newData()
		}
		s.setDefaults()
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.readFile(); err != nil {
			return err
		}
	} else {
		s.data = newData()
	}
	s.setDefaults()
	return s.save()
}

func (s *Store) setDefaults() {
	if s.data.Settings[constants.SettingChosenFilter] == "" {
		s.data.Settings[constants.SettingChosenFilter] = constants.DefaultFilter
	}
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return nil
	}
	if s.path == "" {
		s.data = newData()
		return nil
	}
	return s.readFile()
}

func (s *Store) readFile() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	d := newData()
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if d.Version > snapshotVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", d.Version, snapshotVersion)
	}
	// maps missing from older or hand-edited snapshots
	if d.Categories == nil {
		d.Categories = make(map[string]time.Time)
	}
	if d.Trackers == nil {
		d.Trackers = make(map[string]trackerEntry)
	}
	if d.Records == nil {
		d.Records = make(map[string]map[string]bool)
	}
	if d.Settings == nil {
		d.Settings = make(map[string]string)
	}
	s.data = d
	return nil
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}

var errNotLoaded = errors.New("storage not loaded")

// view runs fn under the lock against loaded data.
func (s *Store) view(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return errNotLoaded
	}
	return fn(s.data)
}

// update runs fn against the data and persists the result. If fn or the
// write fails the data is restored to its state before the call.
func (s *Store) update(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return errNotLoaded
	}

	backup := s.data.clone()
	if err := fn(s.data); err != nil {
		s.data = backup
		return err
	}
	if err := s.save(); err != nil {
		s.data = backup
		return err
	}
	return nil
}

func ensureCategory(d *data, title string) {
	if _, ok := d.Categories[title]; !ok {
		d.Categories[title] = time.Now().UTC()
	}
}

func (s *Store) AddCategory(title string) error {
	return s.update(func(d *data) error {
		if _, ok := d.Categories[title]; ok {
			return fmt.Errorf("category %q: %w", title, storage.ErrDuplicateName)
		}
		ensureCategory(d, title)
		return nil
	})
}

func (s *Store) CategoryExists(title string) (bool, error) {
	var exists bool
	err := s.view(func(d *data) error {
		_, exists = d.Categories[title]
		return nil
	})
	return exists, err
}

func (s *Store) DeleteCategory(title string) error {
	return s.update(func(d *data) error {
		if _, ok := d.Categories[title]; !ok {
			return fmt.Errorf("category %q: %w", title, storage.ErrNotFound)
		}
		n := 0
		for _, e := range d.Trackers {
			if e.Category == title {
				n++
			}
		}
		if n > 0 {
			return fmt.Errorf("category %q has %d tracker(s): %w", title, n, storage.ErrCategoryNotEmpty)
		}
		delete(d.Categories, title)
		return nil
	})
}

func (s *Store) GetAllCategories() ([]models.TrackerCategory, error) {
	var categories []models.TrackerCategory
	err := s.view(func(d *data) error {
		index := make(map[string]int, len(d.Categories))
		for title := range d.Categories {
			index[title] = len(categories)
			categories = append(categories, models.TrackerCategory{Title: title})
		}

		entries := make([]trackerEntry, 0, len(d.Trackers))
		for _, e := range d.Trackers {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i].Tracker, entries[j].Tracker
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})

		for _, e := range entries {
			i, ok := index[e.Category]
			if !ok {
				i = len(categories)
				index[e.Category] = i
				categories = append(categories, models.TrackerCategory{Title: e.Category})
			}
			categories[i].Trackers = append(categories[i].Trackers, e.Tracker)
		}
		return nil
	})
	return categories, err
}

func (s *Store) AddTracker(tracker models.Tracker, categoryTitle string) error {
	if tracker.CreatedAt.IsZero() {
		tracker.CreatedAt = time.Now().UTC()
	}
	return s.update(func(d *data) error {
		if _, ok := d.Trackers[tracker.ID]; ok {
			return fmt.Errorf("tracker %s already exists", tracker.ID)
		}
		ensureCategory(d, categoryTitle)
		d.Trackers[tracker.ID] = trackerEntry{Tracker: tracker, Category: categoryTitle}
		return nil
	})
}

func (s *Store) GetTracker(id string) (models.Tracker, string, error) {
	var entry trackerEntry
	err := s.view(func(d *data) error {
		e, ok := d.Trackers[id]
		if !ok {
			return fmt.Errorf("tracker %s: %w", id, storage.ErrNotFound)
		}
		entry = e
		return nil
	})
	return entry.Tracker, entry.Category, err
}

func (s *Store) UpdateTracker(tracker models.Tracker, categoryTitle string) error {
	return s.update(func(d *data) error {
		existing, ok := d.Trackers[tracker.ID]
		if !ok {
			return fmt.Errorf("tracker %s: %w", tracker.ID, storage.ErrNotFound)
		}
		tracker.CreatedAt = existing.Tracker.CreatedAt
		ensureCategory(d, categoryTitle)
		d.Trackers[tracker.ID] = trackerEntry{Tracker: tracker, Category: categoryTitle}
		return nil
	})
}

func (s *Store) DeleteTracker(id string) error {
	return s.update(func(d *data) error {
		if _, ok := d.Trackers[id]; !ok {
			return fmt.Errorf("tracker %s: %w", id, storage.ErrNotFound)
		}
		delete(d.Trackers, id)
		delete(d.Records, id)
		return nil
	})
}

func (s *Store) AddRecord(record models.TrackerRecord) (bool, error) {
	var created bool
	err := s.update(func(d *data) error {
		if _, ok := d.Trackers[record.TrackerID]; !ok {
			return fmt.Errorf("tracker %s: %w", record.TrackerID, storage.ErrNotFound)
		}
		days := d.Records[record.TrackerID]
		if days == nil {
			days = make(map[string]bool)
			d.Records[record.TrackerID] = days
		}
		if days[record.Day()] {
			return nil
		}
		days[record.Day()] = true
		created = true
		return nil
	})
	return created, err
}

func (s *Store) DeleteRecords(trackerID, day string) (int, error) {
	var deleted int
	err := s.update(func(d *data) error {
		days := d.Records[trackerID]
		if !days[day] {
			return nil
		}
		delete(days, day)
		if len(days) == 0 {
			delete(d.Records, trackerID)
		}
		deleted = 1
		return nil
	})
	return deleted, err
}

func (s *Store) HasRecord(trackerID, day string) (bool, error) {
	var has bool
	err := s.view(func(d *data) error {
		has = d.Records[trackerID][day]
		return nil
	})
	return has, err
}

func (s *Store) CountRecords(trackerID string) (int, error) {
	var n int
	err := s.view(func(d *data) error {
		n = len(d.Records[trackerID])
		return nil
	})
	return n, err
}

func (s *Store) CountCompletedTrackers() (int, error) {
	var n int
	err := s.view(func(d *data) error {
		for _, days := range d.Records {
			if len(days) > 0 {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) GetRecordsForDay(day string) ([]models.TrackerRecord, error) {
	date, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return nil, fmt.Errorf("invalid day %q: %w", day, err)
	}

	var records []models.TrackerRecord
	err = s.view(func(d *data) error {
		for id, days := range d.Records {
			if days[day] {
				records = append(records, models.NewRecord(id, date))
			}
		}
		return nil
	})
	sort.Slice(records, func(i, j int) bool { return records[i].TrackerID < records[j].TrackerID })
	return records, err
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.view(func(d *data) error {
		value = d.Settings[key]
		return nil
	})
	return value, err
}

func (s *Store) SetSetting(key, value string) error {
	return s.update(func(d *data) error {
		d.Settings[key] = value
		return nil
	})
}
