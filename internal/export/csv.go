package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"doccompare/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var sessionColumns = []string{
	"Session ID",
	"Mode",
	"Set",
	"Summary",
	"Status",
	"Document Count",
	"Rule ID",
	"Error",
	"Created At",
	"Started At",
	"Completed At",
}

// CSVWriter writes session history rows as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(sessionColumns)
}

// WriteSessions converts a batch of sessions to rows and writes them.
func (w *CSVWriter) WriteSessions(sessions []domain.AnalysisSession) error {
	for i := range sessions {
		if err := w.csv.Write(sessionToRow(&sessions[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func sessionToRow(s *domain.AnalysisSession) []string {
	row := make([]string, len(sessionColumns))
	row[0] = s.ID.String()
	row[1] = string(s.Mode)
	row[2] = setLabel(s)
	row[3] = s.Summary
	row[4] = string(s.Status)
	row[5] = strconv.Itoa(len(s.DocumentIDs))
	if s.RuleID != nil {
		row[6] = s.RuleID.String()
	}
	if s.ErrorMessage != nil {
		row[7] = *s.ErrorMessage
	}
	row[8] = s.CreatedAt.Format(time.RFC3339)
	row[9] = formatTime(s.StartedAt)
	row[10] = formatTime(s.CompletedAt)
	return row
}

func setLabel(s *domain.AnalysisSession) string {
	switch {
	case s.RemoteSetID != nil:
		return *s.RemoteSetID
	case s.GroupID != nil:
		return s.GroupID.String()
	}
	return ""
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
