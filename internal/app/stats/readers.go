package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// ParticipantStats computes stats for each participant in input order.
func ParticipantStats(participants []string, completions []domain.Completion, schedule domain.Schedule, today time.Time) []CompletionStats {
	out := make([]CompletionStats, 0, len(participants))
	for _, name := range participants {
		out = append(out, ComputeCompletionStats(name, completions, schedule, today))
	}
	return out
}

// TopReaders ranks participants by completed readings, highest first.
func TopReaders(participants []string, completions []domain.Completion, schedule domain.Schedule, today time.Time, n int) []CompletionStats {
	all := ParticipantStats(participants, completions, schedule, today)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Completed > all[j].Completed
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// ParticipantSummaries returns every participant's stats sorted by name.
func ParticipantSummaries(participants []string, completions []domain.Completion, schedule domain.Schedule, today time.Time) []CompletionStats {
	all := ParticipantStats(participants, completions, schedule, today)
	sort.SliceStable(all, func(i, j int) bool {
		a, b := strings.ToLower(all[i].UserName), strings.ToLower(all[j].UserName)
		if a != b {
			return a < b
		}
		return all[i].UserName < all[j].UserName
	})
	return all
}

// RecentCompletions returns the user's completions newest date first,
// limited to n (n <= 0 returns all).
func RecentCompletions(userName string, completions []domain.Completion, n int) []domain.Completion {
	out := UserCompletions(userName, completions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ChronologicalCompletions returns the user's completions oldest date first.
func ChronologicalCompletions(userName string, completions []domain.Completion) []domain.Completion {
	out := UserCompletions(userName, completions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// FilterCompletions applies the optional user and date filters, orders by
// completion time newest first and returns at most limit records along with
// the number that matched.
func FilterCompletions(completions []domain.Completion, userName, date string, limit int) ([]domain.Completion, int) {
	out := []domain.Completion{}
	for _, c := range completions {
		if userName != "" && c.UserName != userName {
			continue
		}
		if date != "" && c.Date != date {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedOn.After(out[j].CompletedOn)
	})

	total := len(out)
	if limit > 0 && total > limit {
		out = out[:limit]
	}
	return out, total
}
