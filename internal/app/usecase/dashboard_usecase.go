package usecase

import (
	"context"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const (
	topReadersShown     = 5
	userRecentCompleted = 5
)

type DashboardView struct {
	TopReaders   []stats.CompletionStats `json:"topReaders"`
	Participants []stats.CompletionStats `json:"participants"`
}

type GetDashboardUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewGetDashboardUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *GetDashboardUsecase {
	return &GetDashboardUsecase{repo: repo, schedule: schedule}
}

func (uc *GetDashboardUsecase) Execute(ctx context.Context, now time.Time) (*DashboardView, error) {
	participants, completions, err := loadAll(ctx, uc.repo)
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		TopReaders:   stats.TopReaders(participants, completions, uc.schedule, now, topReadersShown),
		Participants: stats.ParticipantSummaries(participants, completions, uc.schedule, now),
	}, nil
}

type UserDetailView struct {
	Stats  stats.CompletionStats `json:"stats"`
	Recent []domain.Completion   `json:"recent"`
}

type GetUserDetailUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewGetUserDetailUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *GetUserDetailUsecase {
	return &GetUserDetailUsecase{repo: repo, schedule: schedule}
}

func (uc *GetUserDetailUsecase) Execute(ctx context.Context, userName string, now time.Time) (*UserDetailView, error) {
	if err := requireParticipant(ctx, uc.repo, userName); err != nil {
		return nil, err
	}

	completions, err := uc.repo.ListCompletions(ctx)
	if err != nil {
		return nil, err
	}

	return &UserDetailView{
		Stats:  stats.ComputeCompletionStats(userName, completions, uc.schedule, now),
		Recent: stats.RecentCompletions(userName, completions, userRecentCompleted),
	}, nil
}

func loadAll(ctx context.Context, repo domain.TrackerRepository) ([]string, []domain.Completion, error) {
	participants, err := repo.ListParticipants(ctx)
	if err != nil {
		return nil, nil, err
	}
	completions, err := repo.ListCompletions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return participants, completions, nil
}
