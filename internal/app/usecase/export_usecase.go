package usecase

import (
	"context"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/export"
	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// ExportUsecase gathers the data behind the CSV and XLSX downloads.
type ExportUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewExportUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *ExportUsecase {
	return &ExportUsecase{repo: repo, schedule: schedule}
}

func (uc *ExportUsecase) AdminReport(ctx context.Context, now time.Time) (export.AdminReport, error) {
	participants, completions, err := loadAll(ctx, uc.repo)
	if err != nil {
		return export.AdminReport{}, err
	}

	return export.AdminReport{
		Generated:    now,
		Participants: participants,
		Completions:  completions,
		Schedule:     uc.schedule.UpTo(domain.FormatDate(now)),
	}, nil
}

func (uc *ExportUsecase) UserReport(ctx context.Context, userName string, now time.Time) (export.UserReport, error) {
	if err := requireParticipant(ctx, uc.repo, userName); err != nil {
		return export.UserReport{}, err
	}

	completions, err := uc.repo.ListCompletions(ctx)
	if err != nil {
		return export.UserReport{}, err
	}

	return export.UserReport{
		Generated:   now,
		Stats:       stats.ComputeCompletionStats(userName, completions, uc.schedule, now),
		Completions: stats.ChronologicalCompletions(userName, completions),
	}, nil
}
