package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
)

func TestScheduleEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    Schedule
		reenc   string
	}{
		{name: "single day", encoded: "1", want: NewSchedule(Monday), reenc: "1"},
		{name: "unordered input", encoded: "5,1,3", want: NewSchedule(Monday, Wednesday, Friday), reenc: "1,3,5"},
		{name: "every day", encoded: "1,2,3,4,5,6,7", want: EveryDay(), reenc: "1,2,3,4,5,6,7"},
		{name: "malformed entries skipped", encoded: "1,x,,9,7", want: NewSchedule(Monday, Sunday), reenc: "1,7"},
		{name: "empty", encoded: "", want: 0, reenc: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeSchedule(tt.encoded)
			if got != tt.want {
				t.Errorf("DecodeSchedule(%q) = %v, want %v", tt.encoded, got, tt.want)
			}
			if enc := got.Encode(); enc != tt.reenc {
				t.Errorf("Encode() = %q, want %q", enc, tt.reenc)
			}
		})
	}
}

func TestScheduleSetOperations(t *testing.T) {
	s := NewSchedule(Monday, Friday)
	if !s.Contains(Monday) || s.Contains(Tuesday) {
		t.Errorf("Contains() wrong for %v", s)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	s = s.Without(Monday).With(Sunday)
	if got := s.Days(); len(got) != 2 || got[0] != Friday || got[1] != Sunday {
		t.Errorf("Days() = %v", got)
	}
	if !EveryDay().IsEveryDay() || EveryDay().Len() != 7 {
		t.Error("EveryDay() should contain all seven days")
	}
	if !Schedule(0).IsEmpty() {
		t.Error("zero schedule should be empty")
	}
	if NewSchedule(WeekDay(0), WeekDay(8)) != 0 {
		t.Error("invalid days should be ignored")
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		input   string
		want    Schedule
		wantErr bool
	}{
		{input: "daily", want: EveryDay()},
		{input: "weekdays", want: NewSchedule(Monday, Tuesday, Wednesday, Thursday, Friday)},
		{input: "weekends", want: NewSchedule(Saturday, Sunday)},
		{input: "mon,wed,fri", want: NewSchedule(Monday, Wednesday, Friday)},
		{input: "1, 7", want: NewSchedule(Monday, Sunday)},
		{input: "mon,someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSchedule(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSchedule(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSchedule(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScheduleJSON(t *testing.T) {
	data, err := json.Marshal(NewSchedule(Tuesday, Thursday))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2,4"` {
		t.Errorf("Marshal() = %s", data)
	}
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s != NewSchedule(Tuesday, Thursday) {
		t.Errorf("Unmarshal() = %v", s)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "#FD4C49", want: "#FD4C49"},
		{input: "fd4c49", want: "#FD4C49"},
		{input: " #33cf69 ", want: "#33CF69"},
		{input: "#zzzzzz", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && c.Hex() != tt.want {
				t.Errorf("Hex() = %q, want %q", c.Hex(), tt.want)
			}
		})
	}
}

func TestColorFromRGB(t *testing.T) {
	c := ColorFromRGB(255, 136, 30)
	if c.Hex() != "#FF881E" {
		t.Errorf("Hex() = %q, want #FF881E", c.Hex())
	}
	r, g, b := c.RGB255()
	if r != 255 || g != 136 || b != 30 {
		t.Errorf("RGB255() = %d,%d,%d", r, g, b)
	}
}

func TestTrackerValidate(t *testing.T) {
	valid := NewTracker("Run", TrackerTypeHabit, NewSchedule(Monday), MustParseColor("#FD4C49"), "🏃")

	tests := []struct {
		name    string
		mutate  func(*Tracker)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Tracker) {}},
		{name: "empty id", mutate: func(tr *Tracker) { tr.ID = "" }, wantErr: true},
		{name: "blank name", mutate: func(tr *Tracker) { tr.Name = "   " }, wantErr: true},
		{name: "empty schedule", mutate: func(tr *Tracker) { tr.Schedule = 0 }, wantErr: true},
		{name: "unknown type", mutate: func(tr *Tracker) { tr.Type = "chore" }, wantErr: true},
		{name: "empty emoji allowed", mutate: func(tr *Tracker) { tr.Emoji = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid
			tt.mutate(&tr)
			err := tr.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Validate() error should be a validation error, got %v", err)
			}
		})
	}
}

func TestNewTrackerEventDefaultsToEveryDay(t *testing.T) {
	ev := NewTracker("Dentist", TrackerTypeIrregularEvent, 0, MustParseColor("#007BFA"), "🦷")
	if !ev.Schedule.IsEveryDay() {
		t.Errorf("event schedule = %v, want every day", ev.Schedule)
	}
	habit := NewTracker("Read", TrackerTypeHabit, 0, MustParseColor("#007BFA"), "")
	if !habit.Schedule.IsEmpty() {
		t.Errorf("habit schedule should stay empty, got %v", habit.Schedule)
	}
	if ev.ID == "" || ev.ID == habit.ID {
		t.Error("NewTracker should generate unique ids")
	}
}

func TestParseTrackerType(t *testing.T) {
	tests := []struct {
		input   string
		want    TrackerType
		wantErr bool
	}{
		{input: "habit", want: TrackerTypeHabit},
		{input: "", want: TrackerTypeHabit},
		{input: "event", want: TrackerTypeIrregularEvent},
		{input: "irregularEvent", want: TrackerTypeIrregularEvent},
		{input: "chore", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTrackerType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTrackerType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTrackerType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrackerScheduledOn(t *testing.T) {
	tr := NewTracker("Run", TrackerTypeHabit, NewSchedule(Monday), Color{}, "")
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !tr.ScheduledOn(monday) {
		t.Error("expected tracker to be scheduled on Monday")
	}
	if tr.ScheduledOn(monday.AddDate(0, 0, 1)) {
		t.Error("expected tracker not to be scheduled on Tuesday")
	}
}

func TestSortCategories(t *testing.T) {
	cats := []TrackerCategory{
		{Title: "Sport"},
		{Title: "Pinned"},
		{Title: "Home"},
		{Title: "art"},
	}
	SortCategories(cats)

	want := []string{"Pinned", "Home", "Sport", "art"}
	for i, title := range want {
		if cats[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, cats[i].Title, title)
		}
	}
}

func TestRecordEqual(t *testing.T) {
	morning := NewRecord("a", time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC))
	evening := NewRecord("a", time.Date(2024, time.March, 4, 21, 0, 0, 0, time.UTC))
	other := NewRecord("b", morning.Date)
	nextDay := NewRecord("a", morning.Date.AddDate(0, 0, 1))

	if !morning.Equal(evening) {
		t.Error("records on the same day should be equal")
	}
	if morning.Equal(other) || morning.Equal(nextDay) {
		t.Error("records for other trackers or days should differ")
	}
	if morning.Day() != "2024-03-04" {
		t.Errorf("Day() = %q", morning.Day())
	}
}
