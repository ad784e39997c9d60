package services

import (
	"bytes"
	"context"
	"fmt"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"date", "case_number", "case_name", "lawyer", "activity_type",
	"description", "hours", "billable", "rate", "amount", "status",
}

// Export writes every entry matching filter to an XLSX workbook with a
// totals row. Headers follow the language on ctx.
func (s *TimeEntryService) Export(ctx context.Context, filter repositories.TimeEntryFilter) (*bytes.Buffer, error) {
	entries, _, totals, err := s.List(ctx, filter, repositories.Page{}, repositories.Sort{Field: "date"})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.T(ctx, "export.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, column := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, i18n.T(ctx, "export.columns."+column))
	}

	yes, no := i18n.T(ctx, "export.yes"), i18n.T(ctx, "export.no")
	for i, entry := range entries {
		row := i + 2
		billable := no
		if entry.IsBillable {
			billable = yes
		}
		values := []interface{}{
			entry.Date,
			caseNumberOf(entry.Case),
			caseNameOf(entry.Case),
			lawyerNameOf(entry.Lawyer),
			entry.ActivityType,
			entry.Description,
			entry.Hours,
			billable,
			entry.HourlyRate,
			entry.TotalAmount,
			entry.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalsRow := len(entries) + 2
	f.SetCellValue(sheet, cellName(1, totalsRow), i18n.T(ctx, "export.totals"))
	f.SetCellValue(sheet, cellName(7, totalsRow), totals.TotalHours)
	f.SetCellValue(sheet, cellName(10, totalsRow), totals.TotalAmount)

	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", cellName(len(exportColumns), 1), boldStyle)
	f.SetCellStyle(sheet, cellName(1, totalsRow), cellName(len(exportColumns), totalsRow), boldStyle)

	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	f.SetCellStyle(sheet, cellName(9, 2), cellName(10, totalsRow), moneyStyle)

	f.SetColWidth(sheet, "A", "E", 16)
	f.SetColWidth(sheet, "F", "F", 48)
	f.SetColWidth(sheet, "G", "K", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

func caseNumberOf(c *models.Case) string {
	if c == nil {
		return ""
	}
	return c.CaseNumber
}

func caseNameOf(c *models.Case) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func lawyerNameOf(l *models.Lawyer) string {
	if l == nil {
		return ""
	}
	return l.Name
}
