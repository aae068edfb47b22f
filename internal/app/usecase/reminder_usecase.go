package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// ReminderUsecase builds the scheduled group messages.
type ReminderUsecase struct {
	schedule domain.Schedule
	weeklyUC *WeeklyReportUsecase
}

func NewReminderUsecase(schedule domain.Schedule, weeklyUC *WeeklyReportUsecase) *ReminderUsecase {
	return &ReminderUsecase{schedule: schedule, weeklyUC: weeklyUC}
}

// Daily returns the reminder for today's reading, or false when nothing is
// scheduled.
func (uc *ReminderUsecase) Daily(now time.Time) (string, bool) {
	reading, ok := uc.schedule.ReadingFor(domain.FormatDate(now))
	if !ok || domain.IsWeekend(now) {
		return "", false
	}
	return fmt.Sprintf("📖 Good morning! Today's reading (%s): %s\nSend #done when you finish 🙏", reading.Day, reading.Portion), true
}

// Weekly summarises the week before now.
func (uc *ReminderUsecase) Weekly(ctx context.Context, now time.Time) (string, error) {
	isoYear, week := stats.WeekOf(now.AddDate(0, 0, -7))
	report, err := uc.weeklyUC.Execute(ctx, stats.FormatISOWeek(isoYear, week), now)
	if err != nil {
		return "", err
	}
	return FormatWeeklyReport(report), nil
}

func FormatWeeklyReport(r *stats.WeeklyReport) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("📊 Weekly report %s (%s to %s)\n", stats.FormatISOWeek(r.Year, r.Week), r.From, r.To))
	sb.WriteString(fmt.Sprintf("%d readings scheduled\n", len(r.Readings)))

	if len(r.Rows) == 0 {
		sb.WriteString("\nNo participants yet.")
		return sb.String()
	}

	sb.WriteString("\n")
	for _, row := range r.Rows {
		sb.WriteString(fmt.Sprintf("- %s: %d done, %d missed (%d%%)\n", row.UserName, row.Completed, row.Missed, row.Rate))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
