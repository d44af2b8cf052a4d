package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekDay numbers days the way schedules are presented and persisted:
// Monday=1 through Sunday=7.
//
// Calendar weekday numbers (1=Sunday through 7=Saturday) only cross into
// this type through WeekDayFromCalendar and WeekDay.Calendar.
type WeekDay int

const (
	Monday WeekDay = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekDayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AllWeekDays returns Monday through Sunday in order.
func AllWeekDays() []WeekDay {
	return []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d WeekDay) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d WeekDay) String() string {
	if !d.Valid() {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return weekDayNames[d]
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (d WeekDay) Short() string {
	if !d.Valid() {
		return "?"
	}
	return weekDayNames[d][:3]
}

// Calendar returns the calendar weekday number (1=Sunday..7=Saturday).
func (d WeekDay) Calendar() int {
	return int(d)%7 + 1
}

// TimeWeekday converts to the standard library's weekday.
func (d WeekDay) TimeWeekday() time.Weekday {
	return time.Weekday(d.Calendar() - 1)
}

// WeekDayFromCalendar converts a calendar weekday number (1=Sunday..7=Saturday).
func WeekDayFromCalendar(n int) (WeekDay, error) {
	if n < 1 || n > 7 {
		return 0, fmt.Errorf("calendar weekday %d out of range 1..7", n)
	}
	if n == 1 {
		return Sunday, nil
	}
	return WeekDay(n - 1), nil
}

// WeekDayOf returns the weekday t falls on in t's own location.
func WeekDayOf(t time.Time) WeekDay {
	d, _ := WeekDayFromCalendar(int(t.Weekday()) + 1)
	return d
}

// ParseWeekDay accepts full or abbreviated English names (case-insensitive)
// or the numbers 1..7 with Monday=1.
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := WeekDay(n)
		if !d.Valid() {
			return 0, fmt.Errorf("invalid weekday: %s", s)
		}
		return d, nil
	}
	for _, d := range AllWeekDays() {
		name := strings.ToLower(weekDayNames[d])
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}
