package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"doccompare/internal/domain"
)

const (
	sheetSummary   = "Summary"
	sheetDocuments = "Documents"
	sheetChecks    = "Critical Checks"
	sheetExtracted = "Extracted Data"
)

// WriteSessionWorkbook renders one session and its results as an xlsx workbook.
// Sessions without results still get a Summary sheet carrying the error message.
func WriteSessionWorkbook(w io.Writer, s *domain.AnalysisSession) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("export.WriteSessionWorkbook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteSessionWorkbook style: %w", err)
	}

	summary := [][]interface{}{
		{"Session ID", s.ID.String()},
		{"Mode", string(s.Mode)},
		{"Set", setLabel(s)},
		{"Summary", s.Summary},
		{"Status", string(s.Status)},
		{"Created At", s.CreatedAt.Format(time.RFC3339)},
		{"Completed At", formatTime(s.CompletedAt)},
	}
	if s.ErrorMessage != nil {
		summary = append(summary, []interface{}{"Error", *s.ErrorMessage})
	}
	if s.Results != nil && s.Results.FullFeedback != "" {
		summary = append(summary, []interface{}{"Full Feedback", s.Results.FullFeedback})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold)
	_ = f.SetColWidth(sheetSummary, "A", "A", 18)
	_ = f.SetColWidth(sheetSummary, "B", "B", 80)

	if s.Results != nil {
		if err := writeDocuments(f, s.Results, bold); err != nil {
			return err
		}
		if err := writeChecks(f, s.Results, bold); err != nil {
			return err
		}
		if len(s.Results.ExtractedData) > 0 {
			if err := writeExtracted(f, s.Results, bold); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteSessionWorkbook write: %w", err)
	}
	return nil
}

func writeDocuments(f *excelize.File, r *domain.AnalysisResults, header int) error {
	if _, err := f.NewSheet(sheetDocuments); err != nil {
		return fmt.Errorf("export.writeDocuments: %w", err)
	}
	rows := [][]interface{}{{"#", "Document ID", "Document Name", "Document Type", "Feedback"}}
	for _, d := range r.Results {
		rows = append(rows, []interface{}{d.SequenceOrder, d.DocumentID, d.DocumentName, d.DocumentType, d.AIFeedback})
	}
	if err := writeRows(f, sheetDocuments, rows); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheetDocuments, "A1", "E1", header)
	_ = f.SetColWidth(sheetDocuments, "E", "E", 100)
	return nil
}

func writeChecks(f *excelize.File, r *domain.AnalysisResults, header int) error {
	if _, err := f.NewSheet(sheetChecks); err != nil {
		return fmt.Errorf("export.writeChecks: %w", err)
	}
	rows := [][]interface{}{{"Check", "Status", "Details", "Issue"}}
	for _, c := range r.CriticalCheckResults {
		rows = append(rows, []interface{}{c.CheckName, string(c.Status), c.Details, c.Issue})
	}
	if err := writeRows(f, sheetChecks, rows); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheetChecks, "A1", "D1", header)
	_ = f.SetColWidth(sheetChecks, "A", "A", 40)
	_ = f.SetColWidth(sheetChecks, "C", "D", 60)
	return nil
}

func writeExtracted(f *excelize.File, r *domain.AnalysisResults, header int) error {
	if _, err := f.NewSheet(sheetExtracted); err != nil {
		return fmt.Errorf("export.writeExtracted: %w", err)
	}
	keys := make([]string, 0, len(r.ExtractedData))
	for k := range r.ExtractedData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := [][]interface{}{{"Field", "Value"}}
	for _, k := range keys {
		rows = append(rows, []interface{}{k, fmt.Sprint(r.ExtractedData[k])})
	}
	if err := writeRows(f, sheetExtracted, rows); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheetExtracted, "A1", "B1", header)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export.writeRows: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export.writeRows %s: %w", sheet, err)
		}
	}
	return nil
}
