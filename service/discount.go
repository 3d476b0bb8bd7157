package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/AnTengye/carrierdiscounts/config"
	"github.com/AnTengye/carrierdiscounts/model"
	"github.com/AnTengye/carrierdiscounts/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// DiscountService answers contract queries against the configured workbook.
// It holds no per-request state; the workbook is opened anew for each call.
type DiscountService struct {
	source   WorkbookSource
	selector SheetSelector
	query    config.QueryConfig
}

func NewDiscountService(source WorkbookSource, cfg *config.QueryConfig) *DiscountService {
	return &DiscountService{
		source:   source,
		selector: SheetSelector{StrictUnits: cfg.StrictUnits()},
		query:    *cfg,
	}
}

// Defaults returns the top-N and tolerance applied when a query omits them.
func (s *DiscountService) Defaults() (topN int, tolerance float64) {
	return s.query.DefaultTopN, s.query.DefaultTolerance
}

// Validate rejects queries the pipeline cannot evaluate.
func (s *DiscountService) Validate(q model.ContractQuery) error {
	switch {
	case strings.TrimSpace(q.Carrier) == "":
		return fmt.Errorf("%w: carrier is required", ErrInvalidQuery)
	case q.AnnualSpend <= 0 || math.IsInf(q.AnnualSpend, 0) || math.IsNaN(q.AnnualSpend):
		return fmt.Errorf("%w: annual_spend must be a positive number", ErrInvalidQuery)
	case q.Tolerance < 0 || q.Tolerance > 1 || math.IsNaN(q.Tolerance):
		return fmt.Errorf("%w: tolerance must be within [0,1]", ErrInvalidQuery)
	case q.TopN < 1:
		return fmt.Errorf("%w: top_n_service_types must be at least 1", ErrInvalidQuery)
	case s.query.MaxTopN > 0 && q.TopN > s.query.MaxTopN:
		return fmt.Errorf("%w: top_n_service_types must be at most %d", ErrInvalidQuery, s.query.MaxTopN)
	}
	return nil
}

// Query runs the sheet selection, cleaning, top-N filtering and summary
// pipeline for q. It returns ErrNoContracts when nothing usable matched.
func (s *DiscountService) Query(ctx context.Context, q model.ContractQuery) (summaries []model.ServiceLevelSummary, err error) {
	defer func() {
		queriesTotal.WithLabelValues(outcomeOf(err)).Inc()
	}()

	if err := s.Validate(q); err != nil {
		return nil, err
	}

	f, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contracts, err := s.selectContracts(ctx, f, q)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, ErrNoContracts
	}

	contracts = TopServiceLevels(contracts, q.TopN)

	summaries, dropped := Summarize(contracts)
	if dropped > 0 {
		rowsDropped.Add(float64(dropped))
		logger.Debug(ctx, "dropped rows with non-numeric discount rate", "rows", dropped)
	}
	if len(summaries) == 0 {
		return nil, ErrNoContracts
	}

	logger.Info(ctx, "contract query summarised",
		"rows", len(contracts),
		"service_levels", len(summaries),
	)
	return summaries, nil
}

// selectContracts returns the cleaned rows of every matching sheet, already
// narrowed to the q.TopN most common service levels.
func (s *DiscountService) selectContracts(ctx context.Context, f *excelize.File, q model.ContractQuery) ([]model.ContractRow, error) {
	sheets := s.selector.Select(ctx, f.GetSheetList(), q)
	if len(sheets) == 0 {
		return nil, nil
	}
	logger.Debug(ctx, "matched contract sheets", "sheets", sheets)

	var combined []model.ContractRow
	for _, sheet := range sheets {
		rows, err := ReadSheetRows(f, sheet)
		if err != nil {
			return nil, &SheetError{Sheet: sheet, Err: fmt.Errorf("%w: %w", ErrMalformedSheet, err)}
		}

		cleaned, err := CleanRows(sheet, rows)
		if err != nil {
			logger.Warn(ctx, "malformed contract sheet", "sheet", sheet, "error", err)
			return nil, err
		}
		combined = append(combined, cleaned...)
	}

	return TopServiceLevels(combined, q.TopN), nil
}

// Sheets lists the workbook's sheets with their parsed spend, optionally
// narrowed to one carrier.
func (s *DiscountService) Sheets(ctx context.Context, carrier string) ([]model.SheetInfo, error) {
	f, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.selector.Catalog(f.GetSheetList(), carrier), nil
}

// Check reports whether the workbook is reachable.
func (s *DiscountService) Check(ctx context.Context) error {
	return s.source.Check(ctx)
}

func (s *DiscountService) open(ctx context.Context) (*excelize.File, error) {
	start := time.Now()
	f, err := s.source.Open(ctx)
	workbookLoadSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error(ctx, "failed to open workbook", "workbook", s.source.Describe(), "error", err)
		return nil, err
	}
	return f, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoContracts):
		return OutcomeNoContracts
	case errors.Is(err, ErrInvalidQuery):
		return OutcomeInvalid
	case errors.Is(err, ErrMalformedSheet):
		return OutcomeMalformedSheet
	default:
		return OutcomeWorkbookError
	}
}
