package service

import (
	"fmt"
	"strings"

	"github.com/AnTengye/carrierdiscounts/model"
)

// Contract sheet column headers
const (
	ColumnServiceLevel = "Service Level"
	ColumnWeightRange  = "Weight Range"
	ColumnDiscountRate = "Discount Rate"
)

const contractColumns = 3

// columnLayout holds the zero-based positions of the contract columns in a sheet.
type columnLayout struct {
	serviceLevel int
	weightRange  int
	discountRate int
}

var positionalLayout = columnLayout{serviceLevel: 0, weightRange: 1, discountRate: 2}

// CleanRows turns the raw rows of a sheet into contract rows. The first
// non-blank row is the header. When it names all three contract columns
// those columns are used, otherwise the first three columns are taken by
// position. Rows missing a service level or discount rate are dropped.
func CleanRows(sheet string, rows [][]string) ([]model.ContractRow, error) {
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}

	width := 0
	for _, row := range rows[start:] {
		width = max(width, len(row))
	}
	if width < contractColumns {
		return nil, &SheetError{
			Sheet: sheet,
			Err:   fmt.Errorf("%w: found %d columns, need %d", ErrMalformedSheet, width, contractColumns),
		}
	}

	layout := detectLayout(rows[start])

	var cleaned []model.ContractRow
	for _, row := range rows[start+1:] {
		r := model.ContractRow{
			Sheet:        sheet,
			ServiceLevel: cellAt(row, layout.serviceLevel),
			WeightRange:  cellAt(row, layout.weightRange),
			DiscountRate: cellAt(row, layout.discountRate),
		}
		if r.ServiceLevel == "" || r.DiscountRate == "" {
			continue
		}
		cleaned = append(cleaned, r)
	}
	return cleaned, nil
}

func detectLayout(header []string) columnLayout {
	layout := columnLayout{serviceLevel: -1, weightRange: -1, discountRate: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case normalizeHeader(ColumnServiceLevel):
			layout.serviceLevel = i
		case normalizeHeader(ColumnWeightRange):
			layout.weightRange = i
		case normalizeHeader(ColumnDiscountRate):
			layout.discountRate = i
		}
	}
	if layout.serviceLevel < 0 || layout.weightRange < 0 || layout.discountRate < 0 {
		return positionalLayout
	}
	return layout
}

func normalizeHeader(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
