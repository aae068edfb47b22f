package usecase

import (
	"context"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const (
	missedShown = 6
	recentShown = 6
)

type ProgressView struct {
	Stats   stats.CompletionStats  `json:"stats"`
	History []domain.Completion    `json:"history"`
	Missed  []domain.ScheduleEntry `json:"missed"`
	Recent  []domain.Completion    `json:"recent"`
}

type GetProgressUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewGetProgressUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *GetProgressUsecase {
	return &GetProgressUsecase{repo: repo, schedule: schedule}
}

// Execute returns the user's stats, full history newest first, the last few
// missed readings available for catch-up and the most recent completions.
func (uc *GetProgressUsecase) Execute(ctx context.Context, userName string, now time.Time) (*ProgressView, error) {
	if err := requireParticipant(ctx, uc.repo, userName); err != nil {
		return nil, err
	}

	completions, err := uc.repo.ListCompletions(ctx)
	if err != nil {
		return nil, err
	}

	missed := stats.ComputeMissedReadings(userName, completions, uc.schedule, now)

	return &ProgressView{
		Stats:   stats.ComputeCompletionStats(userName, completions, uc.schedule, now),
		History: stats.RecentCompletions(userName, completions, 0),
		Missed:  stats.Last(missed, missedShown),
		Recent:  stats.RecentCompletions(userName, completions, recentShown),
	}, nil
}
