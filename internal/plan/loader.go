package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

// Load returns the default plan when path is empty, otherwise the plan read
// from a .csv or .xlsx file with a date,portion,day header row.
func Load(path string) (domain.Schedule, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		rows, err = readCSV(f)
	} else {
		rows, err = readExcel(f)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV plan: %w", err)
	}
	return rows, nil
}

func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel plan: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel plan has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// parseRows skips the header row and blank lines. A missing day label is
// filled from the calendar.
func parseRows(rows [][]string) (domain.Schedule, error) {
	var entries []domain.ScheduleEntry
	seen := make(map[string]bool)

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("plan row %d: expected date and portion", i+1)
		}

		date := strings.TrimSpace(row[0])
		t, err := domain.ParseDate(date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("plan row %d: invalid date %q: %w", i+1, date, err)
		}
		if seen[date] {
			return nil, fmt.Errorf("plan row %d: duplicate date %s", i+1, date)
		}
		seen[date] = true

		day := ""
		if len(row) > 2 {
			day = strings.TrimSpace(row[2])
		}
		if day == "" {
			day = t.Weekday().String()
		}

		entries = append(entries, domain.ScheduleEntry{
			Date:    date,
			Portion: strings.TrimSpace(row[1]),
			Day:     day,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("plan file has no readings")
	}
	return domain.NewSchedule(entries), nil
}
