package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Built-in number formats "0%" and "0.00%".
const (
	numFmtPercent        = 9
	numFmtPercentDecimal = 10
)

// ReadSheetRows returns the cells of sheet as stored rather than as
// displayed, so number formats cannot round values away. Numbers in
// percent-formatted cells are scaled by 100: a stored 0.125 shown as "13%"
// reads as 12.5, the same figure a "12.5%" text cell yields.
func ReadSheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	percentStyles := make(map[int]bool)
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return nil, err
			}
			if styleID == 0 {
				continue
			}
			percent, seen := percentStyles[styleID]
			if !seen {
				percent = isPercentStyle(f, styleID)
				percentStyles[styleID] = percent
			}
			if !percent {
				continue
			}

			cellType, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, err
			}
			if cellType != excelize.CellTypeNumber && cellType != excelize.CellTypeUnset {
				continue
			}
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			row[c] = strconv.FormatFloat(roundPercent(n*100), 'f', -1, 64)
		}
	}
	return rows, nil
}

func isPercentStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	switch style.NumFmt {
	case numFmtPercent, numFmtPercentDecimal:
		return true
	}
	return style.CustomNumFmt != nil && strings.Contains(*style.CustomNumFmt, "%")
}

// roundPercent drops the binary noise left by scaling, e.g. 0.105*100.
func roundPercent(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
