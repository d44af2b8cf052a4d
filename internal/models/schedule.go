package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Schedule is the set of weekdays a tracker is active on.
// Bit d-1 is set when WeekDay d is in the set.
type Schedule uint8

const everyDayMask Schedule = 1<<7 - 1

// NewSchedule builds a schedule from the given days. Invalid days are ignored.
func NewSchedule(days ...WeekDay) Schedule {
	var s Schedule
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// EveryDay returns a schedule containing all seven days.
func EveryDay() Schedule {
	return everyDayMask
}

// With returns s plus d.
func (s Schedule) With(d WeekDay) Schedule {
	if !d.Valid() {
		return s
	}
	return s | 1<<(d-1)
}

// Without returns s minus d.
func (s Schedule) Without(d WeekDay) Schedule {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << (d - 1))
}

func (s Schedule) Contains(d WeekDay) bool {
	return d.Valid() && s&(1<<(d-1)) != 0
}

func (s Schedule) IsEmpty() bool {
	return s&everyDayMask == 0
}

func (s Schedule) IsEveryDay() bool {
	return s&everyDayMask == everyDayMask
}

// Len returns the number of days in the schedule.
func (s Schedule) Len() int {
	n := 0
	for _, d := range AllWeekDays() {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Days returns the scheduled days, Monday first.
func (s Schedule) Days() []WeekDay {
	var days []WeekDay
	for _, d := range AllWeekDays() {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Encode returns the persisted form: comma-joined day numbers, e.g. "1,3,5".
func (s Schedule) Encode() string {
	days := s.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// DecodeSchedule parses the persisted form. Entries that are not day numbers
// 1..7 are skipped.
func DecodeSchedule(encoded string) Schedule {
	var s Schedule
	for _, part := range strings.Split(encoded, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		s = s.With(WeekDay(n))
	}
	return s
}

// ParseSchedule parses a user supplied day list such as "mon,wed,fri",
// "1,3,5", "daily" or "weekdays".
func ParseSchedule(input string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "daily", "everyday", "every day", "all":
		return EveryDay(), nil
	case "weekdays":
		return NewSchedule(Monday, Tuesday, Wednesday, Thursday, Friday), nil
	case "weekends":
		return NewSchedule(Saturday, Sunday), nil
	}

	var s Schedule
	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekDay(part)
		if err != nil {
			return 0, err
		}
		s = s.With(d)
	}
	return s, nil
}

func (s Schedule) String() string {
	switch {
	case s.IsEmpty():
		return "never"
	case s.IsEveryDay():
		return "every day"
	}
	days := s.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.Short()
	}
	return strings.Join(parts, ", ")
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Encode())
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	*s = DecodeSchedule(encoded)
	return nil
}
