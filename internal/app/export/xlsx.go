package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Sheet1"

// WriteAdminXLSX writes the admin report as a single-sheet workbook with the
// same header block and rows as the CSV.
func WriteAdminXLSX(w io.Writer, r AdminReport) error {
	f := excelize.NewFile()
	defer f.Close()

	line := 1
	setRow := func(values []string) error {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(reportSheet, cell, &cells)
	}

	for _, h := range r.header() {
		if err := setRow(h); err != nil {
			return err
		}
	}
	if err := setRow(adminColumns); err != nil {
		return err
	}
	for _, row := range r.Rows() {
		if err := setRow(row.values()); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(reportSheet, "A", "G", 20); err != nil {
		return err
	}
	return f.Write(w)
}
