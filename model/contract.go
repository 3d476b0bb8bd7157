package model

import "strconv"

// ContractQuery selects contract sheets by carrier and annual spend band
type ContractQuery struct {
	Carrier     string  `json:"carrier"`
	AnnualSpend float64 `json:"annual_spend"`
	TopN        int     `json:"top_n_service_types"`
	Tolerance   float64 `json:"tolerance"` // fraction of AnnualSpend
}

// SpendLabel renders the annual spend the way it is echoed back to callers.
func (q ContractQuery) SpendLabel() string {
	return strconv.FormatFloat(q.AnnualSpend, 'f', -1, 64)
}

// ContractRow is one cleaned line of a contract sheet. DiscountRate keeps the
// raw cell text; it is coerced to a number only when summarising.
type ContractRow struct {
	Sheet        string `json:"sheet"`
	ServiceLevel string `json:"Service Level"`
	WeightRange  string `json:"Weight Range"`
	DiscountRate string `json:"Discount Rate"`
}

// ServiceLevelSummary aggregates the discount rates of one service level
type ServiceLevelSummary struct {
	ServiceLevel    string  `json:"Service Level"`
	AverageDiscount float64 `json:"Average Discount"`
	MinDiscount     float64 `json:"Min Discount"`
	MaxDiscount     float64 `json:"Max Discount"`
	ContractsCount  int     `json:"Contracts Count"`
}

// SheetInfo describes a workbook sheet and the spend parsed from its name
type SheetInfo struct {
	Name        string  `json:"name"`
	AnnualSpend float64 `json:"annual_spend,omitempty"`
	ParseError  string  `json:"parse_error,omitempty"`
}
