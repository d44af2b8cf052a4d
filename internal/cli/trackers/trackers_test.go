package trackers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/config"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage/memory"
)

// Monday
var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, func()) {
	t.Helper()

	cfg := config.Default()
	cfg.Timezone = "UTC"
	ctx, err := cli.NewContext(memory.New(), cfg)
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	ctx.Board.SetClock(func() time.Time { return fixedNow })

	return ctx, func() {
		ctx.Board.Close()
		_ = ctx.Store.Close()
	}
}

func addTracker(t *testing.T, ctx *cli.Context, cmd TrackerAddCmd) models.Tracker {
	t.Helper()
	if cmd.Type == "" {
		cmd.Type = "habit"
	}
	if cmd.Schedule == "" {
		cmd.Schedule = "daily"
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	tracker, _, err := ctx.Repo.Find(cmd.Name)
	if err != nil {
		t.Fatalf("tracker %q not found after add: %v", cmd.Name, err)
	}
	return tracker
}

func TestTrackerAddValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TrackerAddCmd
		wantErr bool
	}{
		{"valid", TrackerAddCmd{Name: "Run", Category: "Sport", Type: "habit", Schedule: "daily"}, false},
		{"interactive skips checks", TrackerAddCmd{Interactive: true}, false},
		{"missing name", TrackerAddCmd{Category: "Sport", Type: "habit", Schedule: "daily"}, true},
		{"missing category", TrackerAddCmd{Name: "Run", Type: "habit", Schedule: "daily"}, true},
		{"bad type", TrackerAddCmd{Name: "Run", Category: "Sport", Type: "chore", Schedule: "daily"}, true},
		{"bad schedule", TrackerAddCmd{Name: "Run", Category: "Sport", Type: "habit", Schedule: "someday"}, true},
		{"bad color", TrackerAddCmd{Name: "Run", Category: "Sport", Type: "habit", Schedule: "daily", Color: "blue"}, true},
		{"good color", TrackerAddCmd{Name: "Run", Category: "Sport", Type: "habit", Schedule: "daily", Color: "#FF0000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrackerAdd(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	habit := addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport", Schedule: "mon,wed", Emoji: "🏃"})
	if habit.Type != models.TrackerTypeHabit {
		t.Errorf("expected habit, got %s", habit.Type)
	}
	want := models.NewSchedule(models.Monday, models.Wednesday)
	if habit.Schedule != want {
		t.Errorf("expected schedule %s, got %s", want, habit.Schedule)
	}
	if habit.Color.Hex() != models.Palette[0].Hex() {
		t.Errorf("expected first palette color, got %s", habit.Color.Hex())
	}

	event := addTracker(t, ctx, TrackerAddCmd{Name: "Dentist", Category: "Health", Type: "event", Schedule: "mon"})
	if !event.Schedule.IsEveryDay() {
		t.Errorf("new event should be scheduled every day, got %s", event.Schedule)
	}
	if event.Color.Hex() != models.Palette[1].Hex() {
		t.Errorf("expected second palette color, got %s", event.Color.Hex())
	}

	_, category, err := ctx.Repo.GetTracker(event.ID)
	if err != nil {
		t.Fatalf("GetTracker() failed: %v", err)
	}
	if category != "Health" {
		t.Errorf("expected category Health, got %s", category)
	}

	pinned := TrackerAddCmd{Name: "Read", Category: constants.PinnedCategoryTitle, Type: "habit", Schedule: "daily"}
	if err := pinned.Run(ctx); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for reserved category, got %v", err)
	}
}

func TestTrackerEdit(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	tracker := addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport"})

	cmd := TrackerEditCmd{Ref: "run", Name: "Jog", Schedule: "weekends", Color: "#00ff00", Category: "Outdoors"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	got, category, err := ctx.Repo.GetTracker(tracker.ID)
	if err != nil {
		t.Fatalf("GetTracker() failed: %v", err)
	}
	if got.Name != "Jog" {
		t.Errorf("expected name Jog, got %s", got.Name)
	}
	if got.Schedule != models.NewSchedule(models.Saturday, models.Sunday) {
		t.Errorf("expected weekend schedule, got %s", got.Schedule)
	}
	if got.Color.Hex() != "#00FF00" {
		t.Errorf("expected color #00FF00, got %s", got.Color.Hex())
	}
	if category != "Outdoors" {
		t.Errorf("expected category Outdoors, got %s", category)
	}

	bad := TrackerEditCmd{Ref: "Jog", Schedule: "never"}
	if err := bad.Run(ctx); err == nil {
		t.Error("expected error for invalid schedule")
	}

	missing := TrackerEditCmd{Ref: "Swim", Name: "Dive"}
	if err := missing.Run(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTrackerPinUnpinDelete(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	tracker := addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport"})

	if err := (&PinCmd{Ref: "Run"}).Run(ctx); err != nil {
		t.Fatalf("pin failed: %v", err)
	}
	_, category, _ := ctx.Repo.GetTracker(tracker.ID)
	if category != constants.PinnedCategoryTitle {
		t.Errorf("expected pinned, got %s", category)
	}

	if err := (&UnpinCmd{Ref: "Run"}).Run(ctx); err != nil {
		t.Fatalf("unpin failed: %v", err)
	}
	_, category, _ = ctx.Repo.GetTracker(tracker.ID)
	if category != "Sport" {
		t.Errorf("expected Sport after unpin, got %s", category)
	}

	if err := (&MarkCmd{Ref: "Run"}).Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := (&TrackerDeleteCmd{Ref: "Run"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := ctx.Repo.GetTracker(tracker.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected tracker to be gone, got %v", err)
	}
	count, err := ctx.Completions.CompletedDayCount(tracker.ID)
	if err != nil {
		t.Fatalf("CompletedDayCount() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected records to be deleted, got %d", count)
	}
}

func TestMarkUnmark(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	habit := addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport"})
	event := addTracker(t, ctx, TrackerAddCmd{Name: "Dentist", Category: "Health", Type: "event"})

	tests := []struct {
		name    string
		cmd     interface{ Run(*cli.Context) error }
		wantErr bool
	}{
		{"mark today", &MarkCmd{Ref: "Run"}, false},
		{"mark again", &MarkCmd{Ref: "Run"}, false},
		{"mark yesterday", &MarkCmd{Ref: "Run", Date: "yesterday"}, false},
		{"mark explicit", &MarkCmd{Ref: "Run", Date: "2024-02-28"}, false},
		{"mark future", &MarkCmd{Ref: "Run", Date: "2024-03-05"}, true},
		{"mark bad date", &MarkCmd{Ref: "Run", Date: "03/01/2024"}, true},
		{"mark unknown", &MarkCmd{Ref: "Swim"}, true},
		{"unmark explicit", &UnmarkCmd{Ref: "Run", Date: "2024-02-28"}, false},
		{"unmark missing record", &UnmarkCmd{Ref: "Run", Date: "2024-02-28"}, false},
		{"mark event", &MarkCmd{Ref: "Dentist"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	days, err := ctx.Completions.CompletedDayCount(habit.ID)
	if err != nil {
		t.Fatalf("CompletedDayCount() failed: %v", err)
	}
	if days != 2 {
		t.Errorf("expected 2 completed days, got %d", days)
	}

	got, _, err := ctx.Repo.GetTracker(event.ID)
	if err != nil {
		t.Fatalf("GetTracker() failed: %v", err)
	}
	if got.Schedule != models.NewSchedule(models.Monday) {
		t.Errorf("expected event narrowed to Monday, got %s", got.Schedule)
	}

	if err := (&UnmarkCmd{Ref: "Dentist"}).Run(ctx); err != nil {
		t.Fatalf("unmark event failed: %v", err)
	}
	got, _, _ = ctx.Repo.GetTracker(event.ID)
	if !got.Schedule.IsEveryDay() {
		t.Errorf("expected event back to every day, got %s", got.Schedule)
	}
}

func TestMarkReportsNarrowingForExistingRecord(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	event := addTracker(t, ctx, TrackerAddCmd{Name: "Dentist", Category: "Health", Type: "event"})
	// a record left behind without its schedule change
	if _, err := ctx.Store.AddRecord(models.NewRecord(event.ID, fixedNow)); err != nil {
		t.Fatalf("AddRecord() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := (&MarkCmd{Ref: "Dentist"}).mark(ctx, &buf); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Dentist was already done on 2024-03-04", "Event now scheduled on"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	got, _, err := ctx.Repo.GetTracker(event.ID)
	if err != nil {
		t.Fatalf("GetTracker() failed: %v", err)
	}
	if got.Schedule != models.NewSchedule(models.Monday) {
		t.Errorf("expected event narrowed to Monday, got %s", got.Schedule)
	}
}

func TestListRender(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport", Schedule: "mon"})
	addTracker(t, ctx, TrackerAddCmd{Name: "Swim", Category: "Sport", Schedule: "tue"})
	addTracker(t, ctx, TrackerAddCmd{Name: "Read", Category: "Mind"})
	if err := (&PinCmd{Ref: "Read"}).Run(ctx); err != nil {
		t.Fatalf("pin failed: %v", err)
	}
	if err := (&MarkCmd{Ref: "Run"}).Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	tests := []struct {
		name    string
		cmd     ListCmd
		want    []string
		notWant []string
	}{
		{
			name:    "saved default is today",
			cmd:     ListCmd{},
			want:    []string{"Pinned", "Read", "Sport", "Run", "[x]"},
			notWant: []string{"Swim"},
		},
		{
			name: "all",
			cmd:  ListCmd{Mode: "all", Weekday: "tue"},
			want: []string{"Swim", "Read"},
			// Run is scheduled on Monday only
			notWant: []string{"Run"},
		},
		{
			name:    "uncompleted",
			cmd:     ListCmd{Mode: "uncompleted"},
			want:    []string{"Read"},
			notWant: []string{"Run", "Swim"},
		},
		{
			name:    "search",
			cmd:     ListCmd{Mode: "all", Search: "  SWI "},
			want:    []string{"Nothing to track."},
			notWant: []string{"Run", "Read"},
		},
		{
			name: "completed",
			cmd:  ListCmd{Mode: "completed"},
			want: []string{"Run", "1 day", "Read"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.cmd.render(ctx, &buf); err != nil {
				t.Fatalf("render() failed: %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}

	if mode := ctx.Board.SavedMode(); mode != filter.ModeCompleted {
		t.Errorf("expected last mode to be saved, got %s", mode)
	}

	bad := ListCmd{Mode: "sometimes"}
	if err := bad.render(ctx, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestStatsRender(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	addTracker(t, ctx, TrackerAddCmd{Name: "Run", Category: "Sport"})
	addTracker(t, ctx, TrackerAddCmd{Name: "Read", Category: "Mind"})
	for _, date := range []string{"2024-03-01", "2024-03-02", "today"} {
		if err := (&MarkCmd{Ref: "Run", Date: date}).Run(ctx); err != nil {
			t.Fatalf("mark failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := renderStats(ctx, &buf); err != nil {
		t.Fatalf("renderStats() failed: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"Trackers completed: 1", "Run", "3 days", "Read", "0 days"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}
