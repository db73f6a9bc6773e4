package split

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportStatement builds an xlsx statement of the split's obligations and
// recorded payments, one row per participant.
func (s *Service) ExportStatement(ctx context.Context, splitID string) (*excelize.File, error) {
	result, err := s.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Statement"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Participant", "Email", "Role", "Amount Owed", "Amount Paid", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, p := range result.Participants {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), p.DisplayName())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), p.EmailAddress())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), string(p.Role))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), p.AmountOwed)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), p.AmountPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), string(p.Status))
		rowIndex++
	}

	// Totals row
	var owed, paid float64
	for _, p := range result.Participants {
		owed += p.AmountOwed
		paid += p.AmountPaid
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), owed)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), paid)

	f.SetCellValue(sheetName, "H1", "Description")
	f.SetCellValue(sheetName, "I1", result.Split.Description)
	f.SetCellValue(sheetName, "H2", "Currency")
	f.SetCellValue(sheetName, "I2", result.Split.CurrencyCode)
	f.SetCellValue(sheetName, "H3", "Status")
	f.SetCellValue(sheetName, "I3", string(result.Split.Status))

	return f, nil
}
