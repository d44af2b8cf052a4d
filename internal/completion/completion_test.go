package completion

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage/memory"
)

// 2024-03-04 is a Monday
var monday = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func setupTracker(t *testing.T, trackers ...models.Tracker) (*Tracker, *memory.Store) {
	t.Helper()
	store := memory.New()
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	for _, tr := range trackers {
		if err := store.AddTracker(tr, "Home"); err != nil {
			t.Fatalf("AddTracker() error = %v", err)
		}
	}
	return New(store), store
}

func habit(name string, days ...models.WeekDay) models.Tracker {
	return models.NewTracker(name, models.TrackerTypeHabit, models.NewSchedule(days...), models.MustParseColor("#FF881E"), "")
}

func event(name string) models.Tracker {
	return models.NewTracker(name, models.TrackerTypeIrregularEvent, 0, models.MustParseColor("#FF881E"), "")
}

func TestMarkDoneIsIdempotent(t *testing.T) {
	run := habit("Run", models.Monday)
	c, _ := setupTracker(t, run)

	first, err := c.MarkDone(run, monday)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	second, err := c.MarkDone(run, monday.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("MarkDone() again error = %v", err)
	}
	if !first.Created || second.Created {
		t.Errorf("Created = %v, %v; want true, false", first.Created, second.Created)
	}

	count, err := c.CompletedDayCount(run.ID)
	if err != nil || count != 1 {
		t.Errorf("CompletedDayCount() = %d, %v; want 1", count, err)
	}
}

func TestMarkUndoneRoundTrip(t *testing.T) {
	run := habit("Run", models.Monday)
	c, _ := setupTracker(t, run)

	if _, err := c.MarkDone(run, monday.AddDate(0, 0, -7)); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	before, _ := c.CompletedDayCount(run.ID)

	if _, err := c.MarkDone(run, monday); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	result, err := c.MarkUndone(run, monday.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}

	done, err := c.IsCompletedOn(run.ID, monday)
	if err != nil || done {
		t.Errorf("IsCompletedOn() = %v, %v; want false", done, err)
	}
	after, _ := c.CompletedDayCount(run.ID)
	if after != before {
		t.Errorf("CompletedDayCount() = %d, want %d", after, before)
	}
}

func TestMarkUndoneWithoutRecordIsNoOp(t *testing.T) {
	run := habit("Run", models.Monday)
	c, _ := setupTracker(t, run)

	notified := 0
	c.Subscribe(func() { notified++ })

	result, err := c.MarkUndone(run, monday)
	if err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}
	if result.Removed != 0 || result.Narrow != nil {
		t.Errorf("MarkUndone() = %+v, want zero result", result)
	}
	if notified != 0 {
		t.Errorf("observers notified %d times, want 0", notified)
	}
}

func TestMarkDoneFutureDateIsAccepted(t *testing.T) {
	run := habit("Run", models.Monday)
	c, _ := setupTracker(t, run)

	future := time.Now().AddDate(1, 0, 0)
	result, err := c.MarkDone(run, future)
	if err != nil || !result.Created {
		t.Errorf("MarkDone(future) = %+v, %v; want created", result, err)
	}
}

func TestEventScheduleNarrowing(t *testing.T) {
	dentist := event("Dentist")
	c, _ := setupTracker(t, dentist)

	wednesday := monday.AddDate(0, 0, 2)
	result, err := c.MarkDone(dentist, wednesday)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if result.Narrow == nil || *result.Narrow != models.NewSchedule(models.Wednesday) {
		t.Fatalf("Narrow = %v, want {Wednesday}", result.Narrow)
	}

	// already narrowed: no further instruction
	dentist.Schedule = *result.Narrow
	result, err = c.MarkDone(dentist, wednesday)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if result.Narrow != nil {
		t.Errorf("Narrow = %v, want nil once schedule matches", result.Narrow)
	}

	// removing the only record makes the event pending every day again
	result, err = c.MarkUndone(dentist, wednesday)
	if err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}
	if result.Narrow == nil || !result.Narrow.IsEveryDay() {
		t.Errorf("Narrow = %v, want every day", result.Narrow)
	}
}

func TestEventNarrowsOnlyOnFirstDay(t *testing.T) {
	dentist := event("Dentist")
	c, _ := setupTracker(t, dentist)

	result, err := c.MarkDone(dentist, monday)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if result.Narrow == nil || *result.Narrow != models.NewSchedule(models.Monday) {
		t.Fatalf("Narrow = %v, want {Monday}", result.Narrow)
	}
	dentist.Schedule = *result.Narrow

	thursday := monday.AddDate(0, 0, 3)
	tests := []struct {
		name string
		mark func() (MarkResult, error)
	}{
		{"second day", func() (MarkResult, error) { return c.MarkDone(dentist, thursday) }},
		{"second day again", func() (MarkResult, error) { return c.MarkDone(dentist, thursday) }},
		{"undo second day", func() (MarkResult, error) { return c.MarkUndone(dentist, thursday) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.mark()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if result.Narrow != nil {
				t.Errorf("Narrow = %v, want schedule left on Monday", result.Narrow)
			}
		})
	}

	done, err := c.IsCompletedOn(dentist.ID, monday)
	if err != nil || !done {
		t.Errorf("first completion should remain, got %v, %v", done, err)
	}
}

func TestHabitNeverNarrows(t *testing.T) {
	run := habit("Run", models.Monday, models.Friday)
	c, _ := setupTracker(t, run)

	done, err := c.MarkDone(run, monday)
	if err != nil || done.Narrow != nil {
		t.Errorf("MarkDone() = %+v, %v; want no narrowing", done, err)
	}
	undone, err := c.MarkUndone(run, monday)
	if err != nil || undone.Narrow != nil {
		t.Errorf("MarkUndone() = %+v, %v; want no narrowing", undone, err)
	}
}

func TestTotalUniqueCompletedTrackers(t *testing.T) {
	a, b, unused := habit("A", models.Monday), habit("B", models.Monday), habit("C", models.Monday)
	c, _ := setupTracker(t, a, b, unused)

	for i := 0; i < 3; i++ {
		if _, err := c.MarkDone(a, monday.AddDate(0, 0, i)); err != nil {
			t.Fatalf("MarkDone() error = %v", err)
		}
	}
	if _, err := c.MarkDone(b, monday); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	n, err := c.TotalUniqueCompletedTrackers()
	if err != nil || n != 2 {
		t.Errorf("TotalUniqueCompletedTrackers() = %d, %v; want 2", n, err)
	}
}

func TestCompletedOn(t *testing.T) {
	a, b := habit("A", models.Monday), habit("B", models.Monday)
	c, _ := setupTracker(t, a, b)

	if _, err := c.MarkDone(a, monday); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if _, err := c.MarkDone(b, monday.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	done, err := c.CompletedOn(monday)
	if err != nil {
		t.Fatalf("CompletedOn() error = %v", err)
	}
	if !done[a.ID] || done[b.ID] {
		t.Errorf("CompletedOn(monday) = %v", done)
	}
}

func TestDeleteCascadeClearsCompletion(t *testing.T) {
	run := habit("Run", models.Monday)
	c, store := setupTracker(t, run)

	for i := 0; i < 4; i++ {
		if _, err := c.MarkDone(run, monday.AddDate(0, 0, 7*i)); err != nil {
			t.Fatalf("MarkDone() error = %v", err)
		}
	}
	if err := store.DeleteTracker(run.ID); err != nil {
		t.Fatalf("DeleteTracker() error = %v", err)
	}

	if n, _ := c.CompletedDayCount(run.ID); n != 0 {
		t.Errorf("CompletedDayCount() = %d, want 0", n)
	}
	for i := 0; i < 4; i++ {
		if done, _ := c.IsCompletedOn(run.ID, monday.AddDate(0, 0, 7*i)); done {
			t.Errorf("IsCompletedOn(week %d) = true after delete", i)
		}
	}
}

func TestMarkDoneUnknownTracker(t *testing.T) {
	c, _ := setupTracker(t)

	_, err := c.MarkDone(habit("Ghost", models.Monday), monday)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("MarkDone() error = %v, want ErrNotFound", err)
	}
}

func TestSubscribe(t *testing.T) {
	run := habit("Run", models.Monday)
	c, _ := setupTracker(t, run)

	calls := 0
	cancel := c.Subscribe(func() { calls++ })

	if _, err := c.MarkDone(run, monday); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	// duplicate mark changes nothing
	if _, err := c.MarkDone(run, monday); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("observer called %d times, want 1", calls)
	}

	cancel()
	if _, err := c.MarkUndone(run, monday); err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("observer called after cancel")
	}
}

func TestStorageFailureIsWrapped(t *testing.T) {
	store := memory.NewJSON(t.TempDir() + "/never-initialized.json")
	c := New(store)

	_, err := c.CompletedDayCount("x")
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Errorf("CompletedDayCount() error = %v, want ErrStorage", err)
	}
}
