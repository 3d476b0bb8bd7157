package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContracts means no sheet matched the query or matching sheets held no usable rows.
	ErrNoContracts = errors.New("no contracts found")

	// ErrInvalidQuery is returned for queries that cannot be evaluated, such as a zero annual spend.
	ErrInvalidQuery = errors.New("invalid contract query")

	// ErrWorkbookUnavailable wraps failures to locate, fetch or open the workbook.
	ErrWorkbookUnavailable = errors.New("workbook unavailable")

	// ErrMalformedSheet indicates a matched sheet does not have the three contract columns.
	ErrMalformedSheet = errors.New("malformed contract sheet")

	// ErrMalformedSpendToken indicates the text after the last '$' is not a number.
	ErrMalformedSpendToken = errors.New("malformed spend token")

	// ErrAmbiguousSpendUnit indicates a spend token without an M or K unit.
	ErrAmbiguousSpendUnit = errors.New("spend token has no M or K unit")
)

// SheetError reports a problem with a single sheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// SpendTokenError reports a sheet name whose spend could not be read.
type SpendTokenError struct {
	Sheet string
	Token string
	Err   error
}

func (e *SpendTokenError) Error() string {
	return fmt.Sprintf("sheet %q: spend token %q: %v", e.Sheet, e.Token, e.Err)
}

func (e *SpendTokenError) Unwrap() error {
	return e.Err
}
