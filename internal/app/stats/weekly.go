package stats

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

type WeeklyRow struct {
	UserName  string `json:"userName"`
	Completed int    `json:"completed"`
	Missed    int    `json:"missed"`
	Rate      int    `json:"rate"`
}

type WeeklyReport struct {
	Year     int                    `json:"year"`
	Week     int                    `json:"week"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Readings []domain.ScheduleEntry `json:"readings"`
	Rows     []WeeklyRow            `json:"rows"`
}

// WeekStart returns the Monday of the given ISO week: Jan 1 + (week-1)*7
// days, rolled back to Monday for Mon-Thu and forward to the next Monday
// otherwise.
func WeekStart(week, isoYear int) time.Time {
	simple := time.Date(isoYear, time.January, 1+(week-1)*7, 0, 0, 0, 0, time.UTC)
	dow := int(simple.Weekday())
	if dow <= 4 {
		return simple.AddDate(0, 0, 1-dow)
	}
	return simple.AddDate(0, 0, 8-dow)
}

// WeekOf returns the ISO year and week containing t.
func WeekOf(t time.Time) (isoYear, week int) {
	return t.ISOWeek()
}

var isoWeekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// ParseISOWeek parses the "2026-W01" form used by week pickers.
func ParseISOWeek(s string) (isoYear, week int, err error) {
	if !isoWeekPattern.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid week %q", s)
	}
	if _, err := fmt.Sscanf(s, "%d-W%d", &isoYear, &week); err != nil {
		return 0, 0, fmt.Errorf("invalid week %q: %w", s, err)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week %q: week out of range", s)
	}
	return isoYear, week, nil
}

// FormatISOWeek is the inverse of ParseISOWeek.
func FormatISOWeek(isoYear, week int) string {
	return fmt.Sprintf("%d-W%02d", isoYear, week)
}

// ComputeWeeklyReport counts each participant's completions in the week
// against the readings scheduled that week. Missed is clamped at zero when
// completions outside the schedule push the count above the readings.
func ComputeWeeklyReport(week, isoYear int, participants []string, completions []domain.Completion, schedule domain.Schedule) WeeklyReport {
	start := WeekStart(week, isoYear)
	from := domain.FormatDate(start)
	to := domain.FormatDate(start.AddDate(0, 0, 6))

	readings := schedule.Between(from, to)
	if readings == nil {
		readings = domain.Schedule{}
	}
	report := WeeklyReport{
		Year:     isoYear,
		Week:     week,
		From:     from,
		To:       to,
		Readings: readings,
		Rows:     make([]WeeklyRow, 0, len(participants)),
	}

	for _, name := range participants {
		completed := 0
		for _, c := range completions {
			if c.UserName == name && c.Date >= from && c.Date <= to {
				completed++
			}
		}

		missed := len(readings) - completed
		if missed < 0 {
			missed = 0
		}

		report.Rows = append(report.Rows, WeeklyRow{
			UserName:  name,
			Completed: completed,
			Missed:    missed,
			Rate:      Percent(completed, len(readings)),
		})
	}

	return report
}
