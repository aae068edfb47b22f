package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeLine joins fields with bare commas. Fields are never quoted.
func writeLine(w *bufio.Writer, fields ...string) {
	w.WriteString(strings.Join(fields, ","))
	w.WriteString("\n")
}

func WriteAdminCSV(w io.Writer, r AdminReport) error {
	bw := bufio.NewWriter(w)
	for _, line := range r.header() {
		writeLine(bw, line...)
	}
	writeLine(bw, adminColumns...)
	for _, row := range r.Rows() {
		writeLine(bw, row.values()...)
	}
	return bw.Flush()
}

func WriteUserCSV(w io.Writer, r UserReport) error {
	bw := bufio.NewWriter(w)
	generated := r.Generated.Format(TimestampLayout)

	writeLine(bw, "Bible Reading Progress Report")
	writeLine(bw, "User: "+r.Stats.UserName)
	writeLine(bw, "Generated: "+generated)
	writeLine(bw)
	writeLine(bw, fmt.Sprintf("Total Readings: %d", r.Stats.Total))
	writeLine(bw, fmt.Sprintf("Completed: %d", r.Stats.Completed))
	writeLine(bw, fmt.Sprintf("Progress: %d%%", r.Stats.Percentage))
	writeLine(bw, fmt.Sprintf("Current Streak: %d days", r.Stats.Streak))
	writeLine(bw)
	writeLine(bw, "Date", "Portion", "Day", "Completed On", "Type")

	for _, c := range r.Completions {
		completedOn := c.CompletedOn.In(r.Generated.Location()).Format(TimestampLayout)
		writeLine(bw, c.Date, c.Portion, c.Day, completedOn, c.Type())
	}
	return bw.Flush()
}
