// Package reports renders the compliance export.
package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

// Header is the first line of the CSV export.
var Header = []string{"id", "filename", "type", "createdAt", "gstin", "amount", "issues"}

// TimestampLayout is RFC 3339 in UTC with exactly three fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t the way the export does, always with a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []models.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ID,
			row.Filename,
			string(row.Type),
			FormatTimestamp(row.CreatedAt),
			row.GSTIN,
			row.Amount,
			strconv.Itoa(row.IssuesCount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
