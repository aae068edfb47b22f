package usecase

import (
	"context"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type TodayView struct {
	Date           string                `json:"date"`
	Weekend        bool                  `json:"weekend"`
	Reading        *domain.ScheduleEntry `json:"reading,omitempty"`
	CompletedCount int                   `json:"completedCount"`
	Done           bool                  `json:"done"`
}

type GetTodayUsecase struct {
	repo     domain.CompletionRepository
	schedule domain.Schedule
}

func NewGetTodayUsecase(repo domain.CompletionRepository, schedule domain.Schedule) *GetTodayUsecase {
	return &GetTodayUsecase{repo: repo, schedule: schedule}
}

// Execute builds today's reading card. Reading is nil on weekends and on
// unscheduled dates; Done reports whether userName already finished it.
func (uc *GetTodayUsecase) Execute(ctx context.Context, userName string, now time.Time) (*TodayView, error) {
	today := domain.FormatDate(now)
	view := &TodayView{Date: today, Weekend: domain.IsWeekend(now)}

	if view.Weekend {
		return view, nil
	}
	reading, ok := uc.schedule.ReadingFor(today)
	if !ok {
		return view, nil
	}
	view.Reading = &reading

	completions, err := uc.repo.ListCompletions(ctx)
	if err != nil {
		return nil, err
	}
	view.CompletedCount = stats.CountForDate(completions, today)

	if userName != "" {
		for _, c := range completions {
			if c.UserName == userName && c.Date == today {
				view.Done = true
				break
			}
		}
	}
	return view, nil
}
