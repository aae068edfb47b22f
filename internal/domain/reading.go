package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used for schedule and completion dates.
const DateLayout = "2006-01-02"

type ScheduleEntry struct {
	Date    string `json:"date" db:"date"`
	Portion string `json:"portion" db:"portion"`
	Day     string `json:"day" db:"day"`
}

// Schedule is the reading plan, ordered by date ascending.
type Schedule []ScheduleEntry

// NewSchedule copies the entries and sorts them by date.
func NewSchedule(entries []ScheduleEntry) Schedule {
	s := make(Schedule, len(entries))
	copy(s, entries)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Date < s[j].Date
	})
	return s
}

// ReadingFor returns the entry scheduled on date.
func (s Schedule) ReadingFor(date string) (ScheduleEntry, bool) {
	for _, e := range s {
		if e.Date == date {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

// UpTo returns the entries dated on or before date.
func (s Schedule) UpTo(date string) Schedule {
	var out Schedule
	for _, e := range s {
		if e.Date <= date {
			out = append(out, e)
		}
	}
	return out
}

// Before returns the entries dated strictly before date.
func (s Schedule) Before(date string) Schedule {
	var out Schedule
	for _, e := range s {
		if e.Date < date {
			out = append(out, e)
		}
	}
	return out
}

// Between returns the entries dated within [from, to].
func (s Schedule) Between(from, to string) Schedule {
	var out Schedule
	for _, e := range s {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, date, loc)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
