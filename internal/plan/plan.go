package plan

import "github.com/fardannozami/bible-reading-tracker/internal/domain"

// Default is the compiled-in reading plan. Day labels are kept as published,
// even where they disagree with the calendar.
func Default() domain.Schedule {
	return domain.NewSchedule([]domain.ScheduleEntry{
		{Date: "2025-12-23", Portion: "Genesis 1-3", Day: "Monday"},
		{Date: "2025-12-24", Portion: "Genesis 4-7", Day: "Tuesday"},
		{Date: "2025-12-26", Portion: "Genesis 8-11", Day: "Thursday"},
		{Date: "2025-12-27", Portion: "Genesis 12-15", Day: "Friday"},
		{Date: "2025-12-30", Portion: "Genesis 16-19", Day: "Monday"},
		{Date: "2025-12-31", Portion: "Genesis 20-23", Day: "Tuesday"},
		{Date: "2026-01-02", Portion: "Genesis 24-26", Day: "Friday"},
		{Date: "2026-01-05", Portion: "Genesis 27-29", Day: "Monday"},
		{Date: "2026-01-06", Portion: "Genesis 30-32", Day: "Tuesday"},
		{Date: "2026-01-07", Portion: "Genesis 33-36", Day: "Wednesday"},
		{Date: "2026-01-08", Portion: "Genesis 37-40", Day: "Thursday"},
		{Date: "2026-01-09", Portion: "Genesis 41-43", Day: "Friday"},
	})
}
