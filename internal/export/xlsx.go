// Package export renders roster data as downloadable spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/classdash/classdash/internal/domain/model"
)

// RosterSheet is the worksheet name used by RosterWorkbook.
const RosterSheet = "Roster"

var rosterHeaders = []string{"User ID", "First Name", "Last Name", "Email"}

// RosterWorkbook builds an xlsx workbook with one header row followed by one
// row per roster member. The caller owns the returned file and must Close it.
func RosterWorkbook(roster []model.User) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name roster sheet: %w", err)
	}

	for col, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(RosterSheet, cell, header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}
	for row, user := range roster {
		values := []string{user.UserID, user.FirstName, user.LastName, user.Email}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(RosterSheet, cell, value); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	return f, nil
}
