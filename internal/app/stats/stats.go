// Package stats holds the pure calculations behind every progress view:
// completion percentage, streaks, weekly reports, missed readings and the
// admin aggregate. Functions never fail and never mutate their inputs.
package stats

import (
	"math"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// MaxStreakDays bounds the backward walk; longer streaks are under-reported.
const MaxStreakDays = 365

type CompletionStats struct {
	UserName   string `json:"userName"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Remaining  int    `json:"remaining"`
	Percentage int    `json:"percentage"`
	Streak     int    `json:"streak"`
}

// ComputeCompletionStats counts the user's completions against the readings
// scheduled up to today.
func ComputeCompletionStats(userName string, completions []domain.Completion, schedule domain.Schedule, today time.Time) CompletionStats {
	total := len(schedule.UpTo(domain.FormatDate(today)))
	completed := len(UserCompletions(userName, completions))

	remaining := total - completed
	if remaining < 0 {
		remaining = 0
	}

	return CompletionStats{
		UserName:   userName,
		Total:      total,
		Completed:  completed,
		Remaining:  remaining,
		Percentage: Percent(completed, total),
		Streak:     Streak(userName, completions, schedule, today),
	}
}

// Streak walks backward from today over scheduled weekdays. Weekends and
// unscheduled dates are skipped. Today may be incomplete without ending the
// walk; any earlier miss ends it.
func Streak(userName string, completions []domain.Completion, schedule domain.Schedule, today time.Time) int {
	done := make(map[string]bool)
	for _, c := range completions {
		if c.UserName == userName {
			done[c.Date] = true
		}
	}
	if len(done) == 0 {
		return 0
	}

	scheduled := make(map[string]bool, len(schedule))
	for _, e := range schedule {
		scheduled[e.Date] = true
	}

	streak := 0
	day := calendarDay(today)
	for i := 0; i < MaxStreakDays; i, day = i+1, day.AddDate(0, 0, -1) {
		if domain.IsWeekend(day) {
			continue
		}

		date := domain.FormatDate(day)
		if !scheduled[date] {
			continue
		}

		if done[date] {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}

	return streak
}

// Percent is round(part/total*100), 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// UserCompletions returns the user's records in their original order.
func UserCompletions(userName string, completions []domain.Completion) []domain.Completion {
	out := []domain.Completion{}
	for _, c := range completions {
		if c.UserName == userName {
			out = append(out, c)
		}
	}
	return out
}

// calendarDay drops the clock and zone so date arithmetic is DST-free.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
