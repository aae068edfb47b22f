package stats

import (
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// ComputeMissedReadings returns readings scheduled before today that the
// user has not completed, in schedule order.
func ComputeMissedReadings(userName string, completions []domain.Completion, schedule domain.Schedule, today time.Time) []domain.ScheduleEntry {
	done := make(map[string]bool)
	for _, c := range completions {
		if c.UserName == userName {
			done[c.Date] = true
		}
	}

	missed := []domain.ScheduleEntry{}
	for _, e := range schedule.Before(domain.FormatDate(today)) {
		if !done[e.Date] {
			missed = append(missed, e)
		}
	}
	return missed
}

// Last returns the final n entries.
func Last(entries []domain.ScheduleEntry, n int) []domain.ScheduleEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
