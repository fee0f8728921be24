package trading212

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/processors"
	"github.com/dhruvtrip/vizvest-app/src/security/validation"
)

// Column labels exactly as written by the Trading 212 export.
const (
	colAction         = "Action"
	colTime           = "Time"
	colISIN           = "ISIN"
	colTicker         = "Ticker"
	colName           = "Name"
	colShares         = "No. of shares"
	colPricePerShare  = "Price / share"
	colPriceCurrency  = "Currency (Price / share)"
	colExchangeRate   = "Exchange rate"
	colResult         = "Result"
	colTotal          = "Total"
	colTotalCurrency  = "Currency (Total)"
	colWithholdingTax = "Withholding tax"
	colTaxCurrency    = "Currency (Withholding tax)"
	colConversionFee  = "Currency conversion fee"
)

// Trading212Parser implements the parsers.Parser interface for Trading 212
// CSV exports.
type Trading212Parser struct{}

// NewParser creates a new instance of the Trading212Parser.
func NewParser() *Trading212Parser {
	return &Trading212Parser{}
}

// Parse reads a Trading 212 CSV export into raw transaction rows. Columns are
// resolved by header name, so exports with reordered or extra columns still
// parse; the column set varies between account types and export versions.
func (p *Trading212Parser) Parse(file io.Reader) ([]models.RawTransaction, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Column count varies between export versions

	header, err := reader.Read()
	if err == io.EOF {
		return nil, processors.ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("trading212 parser: failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		// Exports saved on Windows may carry a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	if err := processors.ValidateHeader(header); err != nil {
		return nil, err
	}
	index := headerIndex(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("trading212 parser: failed to read CSV records: %w", err)
	}

	rawTxs := make([]models.RawTransaction, 0, len(records))
	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}

		get := func(label string) string {
			idx, ok := index[label]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		action := validation.CleanText(get(colAction))
		raw := models.RawTransaction{
			Action:         action,
			Kind:           models.ClassifyAction(action),
			Time:           get(colTime),
			ISIN:           cleanISIN(get(colISIN)),
			Ticker:         get(colTicker),
			Name:           cleanName(get(colName)),
			Shares:         get(colShares),
			PricePerShare:  get(colPricePerShare),
			PriceCurrency:  get(colPriceCurrency),
			ExchangeRate:   get(colExchangeRate),
			Result:         get(colResult),
			Total:          get(colTotal),
			TotalCurrency:  get(colTotalCurrency),
			WithholdingTax: get(colWithholdingTax),
			TaxCurrency:    get(colTaxCurrency),
			ConversionFee:  get(colConversionFee),
		}
		rawTxs = append(rawTxs, raw)
	}

	return rawTxs, nil
}

// headerIndex maps known column labels to their position in the header row.
// Unknown columns are ignored; the first occurrence of a label wins.
func headerIndex(header []string) map[string]int {
	known := []string{
		colAction, colTime, colISIN, colTicker, colName, colShares,
		colPricePerShare, colPriceCurrency, colExchangeRate, colResult,
		colTotal, colTotalCurrency, colWithholdingTax, colTaxCurrency,
		colConversionFee,
	}
	index := make(map[string]int, len(known))
	for pos, cell := range header {
		label := strings.TrimSpace(cell)
		for _, k := range known {
			if strings.EqualFold(label, k) {
				if _, seen := index[k]; !seen {
					index[k] = pos
				}
				break
			}
		}
	}
	return index
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanName sanitizes the free-text instrument name and caps its length.
func cleanName(s string) string {
	name := validation.CleanText(s)
	if utf8.RuneCountInString(name) > validation.MaxInstrumentName {
		name = string([]rune(name)[:validation.MaxInstrumentName])
	}
	return name
}

// cleanISIN blanks values that do not match the ISIN format. The field is
// optional metadata and never fails a row.
func cleanISIN(s string) string {
	if s == "" {
		return ""
	}
	if err := validation.ValidateISIN(s); err != nil {
		logger.L.Debug("Dropping malformed ISIN from row", "isin", s)
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s))
}
