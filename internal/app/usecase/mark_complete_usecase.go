package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type MarkCompleteUsecase struct {
	repo     domain.TrackerRepository
	schedule domain.Schedule
}

func NewMarkCompleteUsecase(repo domain.TrackerRepository, schedule domain.Schedule) *MarkCompleteUsecase {
	return &MarkCompleteUsecase{repo: repo, schedule: schedule}
}

// Execute records the reading scheduled on date for userName. An empty date
// means today; earlier dates are recorded as catch-up.
func (uc *MarkCompleteUsecase) Execute(ctx context.Context, userName, date string, now time.Time) (*domain.Completion, error) {
	if err := requireParticipant(ctx, uc.repo, userName); err != nil {
		return nil, err
	}

	today := domain.FormatDate(now)
	if date == "" {
		date = today
	}
	if _, err := domain.ParseDate(date, now.Location()); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoReading, date)
	}
	if date > today {
		return nil, domain.ErrFutureReading
	}

	reading, ok := uc.schedule.ReadingFor(date)
	if !ok {
		return nil, domain.ErrNoReading
	}

	return uc.repo.AddCompletion(ctx, userName, reading.Date, reading.Portion, reading.Day, date != today)
}
