package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const monitorPageSize = 50

type AdminOverview struct {
	Aggregate    stats.AdminAggregate    `json:"aggregate"`
	Participants []stats.CompletionStats `json:"participants"`
}

type AdminOverviewUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewAdminOverviewUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *AdminOverviewUsecase {
	return &AdminOverviewUsecase{repo: repo, schedule: schedule}
}

func (uc *AdminOverviewUsecase) Execute(ctx context.Context, now time.Time) (*AdminOverview, error) {
	participants, completions, err := loadAll(ctx, uc.repo)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		Aggregate:    stats.ComputeAdminAggregate(participants, completions, uc.schedule, now),
		Participants: stats.ParticipantStats(participants, completions, uc.schedule, now),
	}, nil
}

type WeeklyReportUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewWeeklyReportUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *WeeklyReportUsecase {
	return &WeeklyReportUsecase{repo: repo, schedule: schedule}
}

// Execute reports on the ISO week given as "2026-W01". An empty week selects
// the week containing now.
func (uc *WeeklyReportUsecase) Execute(ctx context.Context, week string, now time.Time) (*stats.WeeklyReport, error) {
	isoYear, weekNum := stats.WeekOf(now)
	if week = strings.TrimSpace(week); week != "" {
		y, w, err := stats.ParseISOWeek(week)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWeek, err)
		}
		isoYear, weekNum = y, w
	}

	participants, completions, err := loadAll(ctx, uc.repo)
	if err != nil {
		return nil, err
	}

	report := stats.ComputeWeeklyReport(weekNum, isoYear, participants, completions, uc.schedule)
	return &report, nil
}

type MonitorView struct {
	Completions []domain.Completion `json:"completions"`
	Total       int                 `json:"total"`
}

// MonitorUsecase lists completions for the progress monitor, newest first.
type MonitorUsecase struct {
	repo domain.CompletionRepository
}

func NewMonitorUsecase(repo domain.CompletionRepository) *MonitorUsecase {
	return &MonitorUsecase{repo: repo}
}

func (uc *MonitorUsecase) Execute(ctx context.Context, userName, date string) (*MonitorView, error) {
	completions, err := uc.repo.ListCompletions(ctx)
	if err != nil {
		return nil, err
	}

	page, total := stats.FilterCompletions(completions, userName, date, monitorPageSize)
	return &MonitorView{Completions: page, Total: total}, nil
}
