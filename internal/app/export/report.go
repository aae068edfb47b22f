// Package export renders tracker data as downloadable CSV and XLSX files.
package export

import (
	"fmt"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// TimestampLayout formats generation and completion times in reports.
const TimestampLayout = "2006-01-02 15:04:05"

// AdminReport is every participant crossed with every reading due so far.
type AdminReport struct {
	Generated    time.Time
	Participants []string
	Completions  []domain.Completion
	// Schedule holds the readings dated on or before the generation date.
	Schedule domain.Schedule
}

type Row struct {
	UserName    string
	Date        string
	Portion     string
	Day         string
	CompletedOn string
	Type        string
	Status      string
}

func (r Row) values() []string {
	return []string{r.UserName, r.Date, r.Portion, r.Day, r.CompletedOn, r.Type, r.Status}
}

var adminColumns = []string{"User Name", "Reading Date", "Portion", "Day", "Completed On", "Type", "Status"}

// Rows returns one row per participant and reading, pending when the
// participant has no completion for that date.
func (r AdminReport) Rows() []Row {
	index := make(map[string]domain.Completion, len(r.Completions))
	for _, c := range r.Completions {
		index[c.UserName+"\x00"+c.Date] = c
	}

	rows := make([]Row, 0, len(r.Participants)*len(r.Schedule))
	for _, name := range r.Participants {
		for _, e := range r.Schedule {
			row := Row{UserName: name, Date: e.Date, Portion: e.Portion, Day: e.Day}
			if c, ok := index[name+"\x00"+e.Date]; ok {
				row.CompletedOn = r.timestamp(c.CompletedOn)
				row.Type = c.Type()
				row.Status = "Completed"
			} else {
				row.CompletedOn = "Not Completed"
				row.Type = "N/A"
				row.Status = "Pending"
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (r AdminReport) header() [][]string {
	return [][]string{
		{"Bible Reading Tracker - Complete Report"},
		{"Generated: " + r.timestamp(r.Generated)},
		{fmt.Sprintf("Total Participants: %d", len(r.Participants))},
		{fmt.Sprintf("Total Completions: %d", len(r.Completions))},
		{},
	}
}

func (r AdminReport) timestamp(t time.Time) string {
	return t.In(r.Generated.Location()).Format(TimestampLayout)
}

// UserReport is one participant's progress and completion history.
type UserReport struct {
	Generated time.Time
	Stats     stats.CompletionStats
	// Completions are the user's records, oldest date first.
	Completions []domain.Completion
}

func AdminFilename(today time.Time, ext string) string {
	return fmt.Sprintf("bible_reading_complete_report_%s.%s", domain.FormatDate(today), ext)
}

func UserFilename(userName string, today time.Time) string {
	return fmt.Sprintf("bible_progress_%s_%s.csv", userName, domain.FormatDate(today))
}
