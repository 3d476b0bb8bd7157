package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes recorded in discounts_queries_total
const (
	OutcomeOK             = "ok"
	OutcomeNoContracts    = "no_contracts"
	OutcomeInvalid        = "invalid"
	OutcomeMalformedSheet = "malformed_sheet"
	OutcomeWorkbookError  = "workbook_error"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discounts",
		Name:      "queries_total",
		Help:      "Contract discount queries by outcome.",
	}, []string{"outcome"})

	sheetsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discounts",
		Name:      "sheets_skipped_total",
		Help:      "Carrier sheets skipped because their spend token could not be read.",
	}, []string{"reason"})

	workbookLoadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "discounts",
		Name:      "workbook_load_seconds",
		Help:      "Time spent opening and parsing the contract workbook.",
		Buckets:   prometheus.DefBuckets,
	})

	rowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "discounts",
		Name:      "rows_dropped_total",
		Help:      "Contract rows left out of summaries because the discount rate was not numeric.",
	})
)
