package processors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/security/validation"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// RequiredColumns are the header columns every export must carry. All other
// columns are conditionally required per row and checked by ValidateRows.
var RequiredColumns = []string{"Action", "Total", "Currency (Total)"}

// maxReportedRowErrors bounds the reported error list so a fully malformed
// file still produces a readable report.
const maxReportedRowErrors = 10

// ErrEmptyFile marks an upload with zero data rows. Distinct from a
// validation failure: there was nothing to validate.
var ErrEmptyFile = errors.New("file contains no transaction rows")

// ColumnValidationError reports required header columns missing from an
// upload. Fatal before any row parsing.
type ColumnValidationError struct {
	MissingColumns []string `json:"missing_columns"`
}

func (e *ColumnValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

// RowValidationError aggregates per-row failures across the whole file so the
// user sees every problem in one upload attempt. Errors is capped at
// maxReportedRowErrors entries plus a "+N more" marker.
type RowValidationError struct {
	RowCount   int      `json:"row_count"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row validation failed: %d problem(s) found across %d rows", e.ErrorCount, e.RowCount)
}

// ValidateHeader checks the header row for the universally required columns.
// Matching is case-insensitive on trimmed labels.
func ValidateHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[strings.ToLower(col)] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ColumnValidationError{MissingColumns: missing}
	}
	return nil
}

// RowValidator checks parsed rows for the minimum required fields and the
// conditionally required fields per transaction kind.
type RowValidator interface {
	ValidateRows(rows []models.RawTransaction) error
}

type rowValidatorImpl struct{}

// NewRowValidator creates a new instance of RowValidator.
func NewRowValidator() RowValidator {
	return &rowValidatorImpl{}
}

// ValidateRows validates every row independently and collects all failures
// instead of stopping at the first one. Returns ErrEmptyFile for a zero-row
// set and *RowValidationError when any row fails.
func (v *rowValidatorImpl) ValidateRows(rows []models.RawTransaction) error {
	if len(rows) == 0 {
		return ErrEmptyFile
	}

	var errs []string
	for i, row := range rows {
		rowNum := i + 1

		if err := validation.ValidateStringNotEmpty(row.Action, "Action"); err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: missing action", rowNum))
		}

		kind := row.Kind
		if kind == "" {
			// Rows built outside the parser have no classification yet.
			kind = models.ClassifyAction(row.Action)
		}

		if kind.IsTrade() {
			if err := validation.ValidateStringNotEmpty(row.Ticker, "Ticker"); err != nil {
				errs = append(errs, fmt.Sprintf("Row %d: missing ticker for %s", rowNum, strings.TrimSpace(row.Action)))
			}
			if strings.TrimSpace(row.Shares) == "" {
				errs = append(errs, fmt.Sprintf("Row %d: missing share count for %s", rowNum, strings.TrimSpace(row.Action)))
			} else if _, err := validation.ValidatePositiveFloatString(row.Shares, "No. of shares"); err != nil {
				errs = append(errs, fmt.Sprintf("Row %d: share count %q is not a positive number", rowNum, row.Shares))
			}
			if strings.TrimSpace(row.PricePerShare) == "" {
				errs = append(errs, fmt.Sprintf("Row %d: missing price per share for %s", rowNum, strings.TrimSpace(row.Action)))
			} else if _, err := validation.ValidateFloatString(row.PricePerShare, "Price / share", false); err != nil {
				errs = append(errs, fmt.Sprintf("Row %d: price per share %q is not a valid number", rowNum, row.PricePerShare))
			}
		}

		// Total must be numeric on every row; a sell with an unparseable total
		// would make downstream arithmetic undefined.
		if strings.TrimSpace(row.Total) == "" {
			errs = append(errs, fmt.Sprintf("Row %d: missing total", rowNum))
		} else if _, err := validation.ValidateFloatString(row.Total, "Total", true); err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: total %q is not a valid number", rowNum, row.Total))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	reported := make([]string, 0, maxReportedRowErrors+1)
	reported = append(reported, errs[:utils.MinInt(len(errs), maxReportedRowErrors)]...)
	if overflow := len(errs) - len(reported); overflow > 0 {
		reported = append(reported, fmt.Sprintf("+%d more", overflow))
	}
	return &RowValidationError{
		RowCount:   len(rows),
		ErrorCount: len(errs),
		Errors:     reported,
	}
}
