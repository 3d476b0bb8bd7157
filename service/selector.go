package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/AnTengye/carrierdiscounts/model"
	"github.com/AnTengye/carrierdiscounts/pkg/logger"
)

// spendEpsilon absorbs float rounding so a spend exactly at the tolerance edge still matches.
const spendEpsilon = 1e-9

// SheetSelector picks contract sheets by the carrier and spend encoded in their
// names, e.g. "FedEx Ground $2.5M".
type SheetSelector struct {
	// StrictUnits rejects spend tokens lacking an M or K suffix. When false
	// such tokens are read as thousands.
	StrictUnits bool
}

// ParseSpend reads the annual spend from the token after the last '$' in a
// sheet name. "2.5M" is 2,500,000 and "750K" is 750,000.
func (s SheetSelector) ParseSpend(sheetName string) (float64, error) {
	idx := strings.LastIndex(sheetName, "$")
	if idx < 0 {
		return 0, &SpendTokenError{Sheet: sheetName, Err: ErrMalformedSpendToken}
	}
	token := strings.TrimSpace(sheetName[idx+1:])

	number := token
	multiplier := 0.0
	switch upper := strings.ToUpper(token); {
	case strings.HasSuffix(upper, "M"):
		multiplier = 1_000_000
		number = token[:len(token)-1]
	case strings.HasSuffix(upper, "K"):
		multiplier = 1_000
		number = token[:len(token)-1]
	}
	number = strings.ReplaceAll(strings.TrimSpace(number), ",", "")

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, &SpendTokenError{Sheet: sheetName, Token: token, Err: ErrMalformedSpendToken}
	}

	if multiplier == 0 {
		if s.StrictUnits {
			return 0, &SpendTokenError{Sheet: sheetName, Token: token, Err: ErrAmbiguousSpendUnit}
		}
		multiplier = 1_000
	}

	return value * multiplier, nil
}

// MatchesCarrier reports whether the sheet name contains carrier, ignoring case.
func MatchesCarrier(sheetName, carrier string) bool {
	return strings.Contains(strings.ToLower(sheetName), strings.ToLower(strings.TrimSpace(carrier)))
}

// WithinTolerance reports whether |spend-target|/target <= tolerance.
func WithinTolerance(spend, target, tolerance float64) bool {
	if target <= 0 {
		return false
	}
	return math.Abs(spend-target)/target <= tolerance+spendEpsilon
}

// Select returns, in workbook order, the sheets matching the query's carrier
// and spend band. Sheets whose spend cannot be parsed are logged and skipped.
func (s SheetSelector) Select(ctx context.Context, sheetNames []string, q model.ContractQuery) []string {
	var selected []string
	for _, name := range sheetNames {
		if !MatchesCarrier(name, q.Carrier) {
			continue
		}

		spend, err := s.ParseSpend(name)
		if err != nil {
			sheetsSkipped.WithLabelValues(skipReason(err)).Inc()
			logger.Warn(ctx, "skipping sheet with unreadable spend", "sheet", name, "error", err)
			continue
		}

		if !WithinTolerance(spend, q.AnnualSpend, q.Tolerance) {
			logger.Debug(ctx, "sheet spend outside tolerance",
				"sheet", name,
				"sheet_spend", spend,
				"annual_spend", q.AnnualSpend,
			)
			continue
		}

		selected = append(selected, name)
	}
	return selected
}

// Catalog describes every sheet in the workbook, optionally narrowed to one carrier.
func (s SheetSelector) Catalog(sheetNames []string, carrier string) []model.SheetInfo {
	infos := make([]model.SheetInfo, 0, len(sheetNames))
	for _, name := range sheetNames {
		if carrier != "" && !MatchesCarrier(name, carrier) {
			continue
		}
		info := model.SheetInfo{Name: name}
		if spend, err := s.ParseSpend(name); err != nil {
			var tokenErr *SpendTokenError
			if errors.As(err, &tokenErr) {
				info.ParseError = tokenErr.Err.Error()
			} else {
				info.ParseError = err.Error()
			}
		} else {
			info.AnnualSpend = spend
		}
		infos = append(infos, info)
	}
	return infos
}

func skipReason(err error) string {
	if errors.Is(err, ErrAmbiguousSpendUnit) {
		return "ambiguous_unit"
	}
	return "malformed_spend"
}
