package stats

import (
	"math"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type AdminAggregate struct {
	TotalParticipants    int `json:"totalParticipants"`
	TotalCompletions     int `json:"totalCompletions"`
	AvgCompletionPercent int `json:"avgCompletionPercent"`
	TodayCompletions     int `json:"todayCompletions"`
}

// ComputeAdminAggregate averages the per-participant completion rates, so
// every participant weighs the same regardless of how much they read.
func ComputeAdminAggregate(participants []string, completions []domain.Completion, schedule domain.Schedule, today time.Time) AdminAggregate {
	todayStr := domain.FormatDate(today)
	total := len(schedule.UpTo(todayStr))

	agg := AdminAggregate{
		TotalParticipants: len(participants),
		TotalCompletions:  len(completions),
		TodayCompletions:  CountForDate(completions, todayStr),
	}

	if len(participants) == 0 {
		return agg
	}

	var sum float64
	for _, name := range participants {
		if total > 0 {
			sum += float64(len(UserCompletions(name, completions))) / float64(total) * 100
		}
	}
	agg.AvgCompletionPercent = int(math.Round(sum / float64(len(participants))))

	return agg
}

// CountForDate counts completion records for date across all users.
func CountForDate(completions []domain.Completion, date string) int {
	n := 0
	for _, c := range completions {
		if c.Date == date {
			n++
		}
	}
	return n
}
