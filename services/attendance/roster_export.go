package attendance

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RosterExportOperations renders a session's attendance roster as an XLSX
// workbook, the same shape `services/active.ExportSessions` produces for
// staff time sheets.
type RosterExportOperations interface {
	ExportRoster(ctx context.Context, sessionID int64) ([]byte, error)
}

// ExportRoster builds one worksheet per session listing every attendance
// row, for the `GET /sessions/{id}/attendance.xlsx` download.
func (s *service) ExportRoster(ctx context.Context, sessionID int64) ([]byte, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, &Error{Op: "export_roster", Err: err}
	}
	rows, err := s.store.ListAttendanceForSession(ctx, sessionID)
	if err != nil {
		return nil, &Error{Op: "export_roster", Err: err}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Attendance"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, &Error{Op: "export_roster", Err: fmt.Errorf("create sheet: %w", err)}
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Student ID", "Status", "Check-In", "Last Seen", "Confidence", "Method"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		_ = f.SetCellValue(sheet, cellAt(1, rowIdx+2), row.StudentID)
		_ = f.SetCellValue(sheet, cellAt(2, rowIdx+2), row.Status)
		if row.CheckInTime != nil {
			_ = f.SetCellValue(sheet, cellAt(3, rowIdx+2), row.CheckInTime.Format("2006-01-02 15:04:05"))
		}
		if row.LastSeenTime != nil {
			_ = f.SetCellValue(sheet, cellAt(4, rowIdx+2), row.LastSeenTime.Format("2006-01-02 15:04:05"))
		}
		if row.Confidence != nil {
			_ = f.SetCellValue(sheet, cellAt(5, rowIdx+2), *row.Confidence)
		}
		_ = f.SetCellValue(sheet, cellAt(6, rowIdx+2), row.Method)
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	title, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	_ = f.SetCellValue(sheet, "H1", fmt.Sprintf("Session #%d (%s)", session.ID, session.Status))
	_ = f.SetCellStyle(sheet, "H1", "H1", title)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, &Error{Op: "export_roster", Err: fmt.Errorf("write xlsx: %w", err)}
	}
	return buf.Bytes(), nil
}

func cellAt(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
