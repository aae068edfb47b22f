package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type GetLeaderboardUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewGetLeaderboardUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *GetLeaderboardUsecase {
	return &GetLeaderboardUsecase{repo: repo, schedule: schedule}
}

// Execute renders the chat leaderboard. Readers with a running streak are
// listed first, then everyone who needs to catch up; each group is ranked by
// completed readings.
func (uc *GetLeaderboardUsecase) Execute(ctx context.Context, now time.Time) (string, error) {
	participants, completions, err := loadAll(ctx, uc.repo)
	if err != nil {
		return "", err
	}

	var onStreak, behind []stats.CompletionStats
	for _, s := range stats.TopReaders(participants, completions, uc.schedule, now, 0) {
		if s.Streak > 0 {
			onStreak = append(onStreak, s)
		} else {
			behind = append(behind, s)
		}
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("📖 Bible Reading Leaderboard (%s)\n\n", now.Format("02-01-2006")))
	sb.WriteString("Recap:\n")
	sb.WriteString(fmt.Sprintf("%d readers keep the streak 🔥\n", len(onStreak)))
	sb.WriteString(fmt.Sprintf("%d need to catch up 💔\n", len(behind)))

	if len(participants) == 0 {
		sb.WriteString("\nNo participants yet. Join with #join <name> 🙏")
		return sb.String(), nil
	}

	sb.WriteString("\nStandings:\n")
	rank := 1
	for _, s := range onStreak {
		sb.WriteString(fmt.Sprintf("%d. %s - %d/%d readings, %d days streak 🔥\n", rank, s.UserName, s.Completed, s.Total, s.Streak))
		rank++
	}
	for _, s := range behind {
		sb.WriteString(fmt.Sprintf("%d. %s - %d/%d readings 💔\n", rank, s.UserName, s.Completed, s.Total))
		rank++
	}

	sb.WriteString("\nFinished today's reading? Send #done 💪")
	return sb.String(), nil
}
