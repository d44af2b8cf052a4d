package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return store, func() { store.Close() }
}

func TestProvider(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) (storage.Provider, func()) {
		return setupTestStore(t)
	})
}

func TestInitCreatesSchema(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"categories", "trackers", "tracker_records", "settings", "schema_version"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s) error = %v", table, err)
		}
		if !exists {
			t.Errorf("table %s was not created", table)
		}
	}

	mode, err := store.GetSetting(constants.SettingChosenFilter)
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if mode != constants.DefaultFilter {
		t.Errorf("default chosen filter = %q, want %q", mode, constants.DefaultFilter)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SetSetting(constants.SettingChosenFilter, constants.FilterAll); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	mode, _ := store.GetSetting(constants.SettingChosenFilter)
	if mode != constants.FilterAll {
		t.Errorf("Init() overwrote chosen filter: %q", mode)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("Load() should fail before init")
	}
	if !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() error should mention init, got %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	tracker := models.NewTracker("Run", models.TrackerTypeHabit, models.NewSchedule(models.Monday), models.MustParseColor("#007BFA"), "🏃")
	if err := store.AddTracker(tracker, "Sport"); err != nil {
		t.Fatalf("AddTracker() error = %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	got, category, err := reopened.GetTracker(tracker.ID)
	if err != nil {
		t.Fatalf("GetTracker() error = %v", err)
	}
	if got.Name != "Run" || category != "Sport" {
		t.Errorf("GetTracker() = %+v in %q", got, category)
	}
	if !got.CreatedAt.Equal(tracker.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, tracker.CreatedAt)
	}
}

func TestCallsBeforeLoadFail(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if _, err := store.GetAllCategories(); err == nil {
		t.Error("GetAllCategories() should fail before the store is loaded")
	}
	if err := store.AddCategory("Sport"); err == nil {
		t.Error("AddCategory() should fail before the store is loaded")
	}
}

func TestMigrateUpToDate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	applied, err := store.Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate() applied %d, want 0 after Init", applied)
	}
}
