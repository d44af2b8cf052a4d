// Package storagetest holds behaviour tests every storage.Provider must pass.
package storagetest

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

// Factory returns an initialized, empty store and a cleanup function.
type Factory func(t *testing.T) (storage.Provider, func())

// Run runs the provider suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Provider)
	}{
		{"Categories", testCategories},
		{"TrackerRoundTrip", testTrackerRoundTrip},
		{"UpdateTracker", testUpdateTracker},
		{"UpdateMissingTracker", testUpdateMissingTracker},
		{"DeleteTrackerCascades", testDeleteTrackerCascades},
		{"RecordsUniquePerDay", testRecordsUniquePerDay},
		{"RecordRequiresTracker", testRecordRequiresTracker},
		{"CountCompletedTrackers", testCountCompletedTrackers},
		{"DeleteCategory", testDeleteCategory},
		{"Settings", testSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cleanup := newStore(t)
			defer cleanup()
			tt.fn(t, s)
		})
	}
}

var monday = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func newHabit(name string, days ...models.WeekDay) models.Tracker {
	return models.NewTracker(name, models.TrackerTypeHabit, models.NewSchedule(days...), models.MustParseColor("#33CF69"), "✅")
}

func titles(categories []models.TrackerCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Title)
	}
	sort.Strings(out)
	return out
}

func findCategory(categories []models.TrackerCategory, title string) *models.TrackerCategory {
	for i := range categories {
		if categories[i].Title == title {
			return &categories[i]
		}
	}
	return nil
}

func testCategories(t *testing.T, s storage.Provider) {
	if err := s.AddCategory("Sport"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if err := s.AddCategory("Sport"); !errors.Is(err, storage.ErrDuplicateName) {
		t.Errorf("AddCategory() duplicate error = %v, want ErrDuplicateName", err)
	}
	// titles are case-sensitive
	if err := s.AddCategory("sport"); err != nil {
		t.Errorf("AddCategory(sport) error = %v", err)
	}

	exists, err := s.CategoryExists("Sport")
	if err != nil || !exists {
		t.Errorf("CategoryExists(Sport) = %v, %v", exists, err)
	}
	exists, err = s.CategoryExists("Home")
	if err != nil || exists {
		t.Errorf("CategoryExists(Home) = %v, %v", exists, err)
	}

	categories, err := s.GetAllCategories()
	if err != nil {
		t.Fatalf("GetAllCategories() error = %v", err)
	}
	got := titles(categories)
	if len(got) != 2 || got[0] != "Sport" || got[1] != "sport" {
		t.Errorf("GetAllCategories() titles = %v", got)
	}
}

func testTrackerRoundTrip(t *testing.T, s storage.Provider) {
	tracker := newHabit("Run", models.Monday, models.Wednesday, models.Sunday)
	tracker.Color = models.MustParseColor("#fd4c49")

	if err := s.AddTracker(tracker, "Sport"); err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}

	got, category, err := s.GetTracker(tracker.ID)
	if err != nil {
		t.Fatalf("GetTracker() error = %v", err)
	}
	if category != "Sport" {
		t.Errorf("category = %q, want Sport", category)
	}
	if got.Name != "Run" || got.Emoji != "✅" || got.Type != models.TrackerTypeHabit {
		t.Errorf("GetTracker() = %+v", got)
	}
	if got.Schedule != tracker.Schedule || got.Schedule.Encode() != "1,3,7" {
		t.Errorf("schedule = %q, want 1,3,7", got.Schedule.Encode())
	}
	if got.Color.Hex() != "#FD4C49" {
		t.Errorf("color = %q, want #FD4C49", got.Color.Hex())
	}
	if got.OriginalCategory != "" {
		t.Errorf("OriginalCategory = %q, want empty", got.OriginalCategory)
	}

	// AddTracker creates the category on demand
	exists, err := s.CategoryExists("Sport")
	if err != nil || !exists {
		t.Errorf("category Sport should have been created")
	}

	if _, _, err := s.GetTracker("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTracker(missing) error = %v, want ErrNotFound", err)
	}
}

func testUpdateTracker(t *testing.T, s storage.Provider) {
	tracker := newHabit("Run", models.Monday)
	if err := s.AddTracker(tracker, "Sport"); err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}

	tracker.Name = "Morning run"
	tracker.Schedule = models.EveryDay()
	tracker.OriginalCategory = "Sport"
	if err := s.UpdateTracker(tracker, "Pinned"); err != nil {
		t.Fatalf("UpdateTracker() error = %v", err)
	}

	got, category, err := s.GetTracker(tracker.ID)
	if err != nil {
		t.Fatalf("GetTracker() error = %v", err)
	}
	if category != "Pinned" || got.OriginalCategory != "Sport" {
		t.Errorf("category = %q original = %q", category, got.OriginalCategory)
	}
	if got.Name != "Morning run" || !got.Schedule.IsEveryDay() {
		t.Errorf("GetTracker() = %+v", got)
	}

	categories, err := s.GetAllCategories()
	if err != nil {
		t.Fatalf("GetAllCategories() error = %v", err)
	}
	if sport := findCategory(categories, "Sport"); sport != nil && len(sport.Trackers) != 0 {
		t.Errorf("Sport should be empty after re-parenting, has %d", len(sport.Trackers))
	}
	pinned := findCategory(categories, "Pinned")
	if pinned == nil || len(pinned.Trackers) != 1 || pinned.Trackers[0].ID != tracker.ID {
		t.Errorf("Pinned should contain the tracker, got %+v", pinned)
	}

	// clearing the remembered category
	got.OriginalCategory = ""
	if err := s.UpdateTracker(got, "Sport"); err != nil {
		t.Fatalf("UpdateTracker() error = %v", err)
	}
	got, category, _ = s.GetTracker(tracker.ID)
	if category != "Sport" || got.OriginalCategory != "" {
		t.Errorf("after unpin category = %q original = %q", category, got.OriginalCategory)
	}
}

func testUpdateMissingTracker(t *testing.T, s storage.Provider) {
	err := s.UpdateTracker(newHabit("Ghost", models.Monday), "Sport")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateTracker() error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTracker("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteTracker() error = %v, want ErrNotFound", err)
	}
}

func testDeleteTrackerCascades(t *testing.T, s storage.Provider) {
	tracker := newHabit("Run", models.Monday)
	other := newHabit("Read", models.Monday)
	for _, tr := range []models.Tracker{tracker, other} {
		if err := s.AddTracker(tr, "Sport"); err != nil {
			t.Fatalf("AddTracker() error = %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := s.AddRecord(models.NewRecord(tracker.ID, monday.AddDate(0, 0, i))); err != nil {
			t.Fatalf("AddRecord() error = %v", err)
		}
	}
	if _, err := s.AddRecord(models.NewRecord(other.ID, monday)); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	if err := s.DeleteTracker(tracker.ID); err != nil {
		t.Fatalf("DeleteTracker() error = %v", err)
	}

	count, err := s.CountRecords(tracker.ID)
	if err != nil || count != 0 {
		t.Errorf("CountRecords() = %d, %v, want 0", count, err)
	}
	has, err := s.HasRecord(tracker.ID, "2024-03-04")
	if err != nil || has {
		t.Errorf("HasRecord() = %v, %v, want false", has, err)
	}
	if count, _ := s.CountRecords(other.ID); count != 1 {
		t.Errorf("other tracker records = %d, want 1", count)
	}
	if _, _, err := s.GetTracker(tracker.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTracker() after delete error = %v", err)
	}
}

func testRecordsUniquePerDay(t *testing.T, s storage.Provider) {
	tracker := newHabit("Run", models.Monday)
	if err := s.AddTracker(tracker, "Sport"); err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}

	created, err := s.AddRecord(models.NewRecord(tracker.ID, monday))
	if err != nil || !created {
		t.Fatalf("AddRecord() = %v, %v, want true", created, err)
	}
	// a later time on the same day is the same record
	created, err = s.AddRecord(models.NewRecord(tracker.ID, monday.Add(10*time.Hour)))
	if err != nil || created {
		t.Errorf("AddRecord() same day = %v, %v, want false", created, err)
	}
	created, err = s.AddRecord(models.NewRecord(tracker.ID, monday.AddDate(0, 0, 1)))
	if err != nil || !created {
		t.Errorf("AddRecord() next day = %v, %v, want true", created, err)
	}

	if count, _ := s.CountRecords(tracker.ID); count != 2 {
		t.Errorf("CountRecords() = %d, want 2", count)
	}

	records, err := s.GetRecordsForDay("2024-03-04")
	if err != nil {
		t.Fatalf("GetRecordsForDay() error = %v", err)
	}
	if len(records) != 1 || records[0].TrackerID != tracker.ID || records[0].Day() != "2024-03-04" {
		t.Errorf("GetRecordsForDay() = %+v", records)
	}

	deleted, err := s.DeleteRecords(tracker.ID, "2024-03-04")
	if err != nil || deleted != 1 {
		t.Errorf("DeleteRecords() = %d, %v, want 1", deleted, err)
	}
	deleted, err = s.DeleteRecords(tracker.ID, "2024-03-04")
	if err != nil || deleted != 0 {
		t.Errorf("DeleteRecords() again = %d, %v, want 0", deleted, err)
	}
}

func testRecordRequiresTracker(t *testing.T, s storage.Provider) {
	_, err := s.AddRecord(models.NewRecord("missing", monday))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddRecord() error = %v, want ErrNotFound", err)
	}
}

func testCountCompletedTrackers(t *testing.T, s storage.Provider) {
	a := newHabit("A", models.Monday)
	b := newHabit("B", models.Monday)
	c := newHabit("C", models.Monday)
	for _, tr := range []models.Tracker{a, b, c} {
		if err := s.AddTracker(tr, "Home"); err != nil {
			t.Fatalf("AddTracker() error = %v", err)
		}
	}

	if n, err := s.CountCompletedTrackers(); err != nil || n != 0 {
		t.Errorf("CountCompletedTrackers() = %d, %v, want 0", n, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.AddRecord(models.NewRecord(a.ID, monday.AddDate(0, 0, i))); err != nil {
			t.Fatalf("AddRecord() error = %v", err)
		}
	}
	if _, err := s.AddRecord(models.NewRecord(b.ID, monday)); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	if n, err := s.CountCompletedTrackers(); err != nil || n != 2 {
		t.Errorf("CountCompletedTrackers() = %d, %v, want 2", n, err)
	}
}

func testDeleteCategory(t *testing.T, s storage.Provider) {
	if err := s.AddCategory("Empty"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if err := s.AddTracker(newHabit("Run", models.Monday), "Sport"); err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}

	if err := s.DeleteCategory("Sport"); !errors.Is(err, storage.ErrCategoryNotEmpty) {
		t.Errorf("DeleteCategory(Sport) error = %v, want ErrCategoryNotEmpty", err)
	}
	if err := s.DeleteCategory("Missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteCategory(Missing) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteCategory("Empty"); err != nil {
		t.Errorf("DeleteCategory(Empty) error = %v", err)
	}
	if exists, _ := s.CategoryExists("Empty"); exists {
		t.Error("Empty should be gone")
	}
}

func testSettings(t *testing.T, s storage.Provider) {
	value, err := s.GetSetting("unknown")
	if err != nil || value != "" {
		t.Errorf("GetSetting(unknown) = %q, %v", value, err)
	}
	if err := s.SetSetting("chosen_filter", "all"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := s.SetSetting("chosen_filter", "completed"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	value, err = s.GetSetting("chosen_filter")
	if err != nil || value != "completed" {
		t.Errorf("GetSetting() = %q, %v, want completed", value, err)
	}
}
