package processors

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// DefaultBaseCurrency is the fallback when an upload carries no usable
// currency column at all.
const DefaultBaseCurrency = "EUR"

// CurrencyNormalizer detects the dominant transaction currency of an upload
// and converts every row's total into it, using only the per-row exchange
// rates carried by the file. No external rate source is ever consulted.
type CurrencyNormalizer interface {
	DetectBaseCurrency(rows []models.RawTransaction) string
	NormalizeAll(rows []models.RawTransaction) []models.NormalizedTransaction
}

type currencyNormalizerImpl struct {
	defaultCurrency string
}

// NewCurrencyNormalizer creates a new instance of CurrencyNormalizer.
// An empty defaultCurrency falls back to DefaultBaseCurrency.
func NewCurrencyNormalizer(defaultCurrency string) CurrencyNormalizer {
	cur := normalizeCurrency(defaultCurrency)
	if cur == "" {
		cur = DefaultBaseCurrency
	}
	return &currencyNormalizerImpl{defaultCurrency: cur}
}

// DetectBaseCurrency returns the most frequent total-currency across all rows.
// Ties resolve to whichever currency reached the maximum count first, scanning
// in row order, so detection is stable for a given file.
func (n *currencyNormalizerImpl) DetectBaseCurrency(rows []models.RawTransaction) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, row := range rows {
		cur := normalizeCurrency(row.TotalCurrency)
		if cur == "" {
			continue
		}
		counts[cur]++
		if counts[cur] > bestCount {
			best = cur
			bestCount = counts[cur]
		}
	}
	if best == "" {
		return n.defaultCurrency
	}
	return best
}

// NormalizeAll detects the base currency once, then maps every row through
// the single-row conversion. Detecting once per batch guarantees all rows are
// normalized against the same base even when a batch is reprocessed later.
func (n *currencyNormalizerImpl) NormalizeAll(rows []models.RawTransaction) []models.NormalizedTransaction {
	base := n.DetectBaseCurrency(rows)
	normalized := make([]models.NormalizedTransaction, 0, len(rows))

	for _, row := range rows {
		kind := row.Kind
		if kind == "" {
			kind = models.ClassifyAction(row.Action)
		}

		ts, err := utils.ParseTimestamp(row.Time)
		if err != nil && strings.TrimSpace(row.Time) != "" {
			logger.L.Debug("Unparseable transaction timestamp, keeping zero time", "time", row.Time, "action", row.Action)
		}
		if err != nil {
			ts = time.Time{}
		}

		total := parseFloatOrZero(row.Total)
		rate := parseFloatOrZero(row.ExchangeRate)

		tx := models.NormalizedTransaction{
			Action:              row.Action,
			Kind:                kind,
			Time:                ts,
			ISIN:                row.ISIN,
			Ticker:              row.Ticker,
			Name:                row.Name,
			Shares:              parseFloatOrZero(row.Shares),
			PricePerShare:       parseFloatOrZero(row.PricePerShare),
			PriceCurrency:       normalizeCurrency(row.PriceCurrency),
			ExchangeRate:        rate,
			Result:              parseFloatOrZero(row.Result),
			Total:               total,
			TotalCurrency:       normalizeCurrency(row.TotalCurrency),
			WithholdingTax:      parseFloatOrZero(row.WithholdingTax),
			TaxCurrency:         normalizeCurrency(row.TaxCurrency),
			ConversionFee:       parseFloatOrZero(row.ConversionFee),
			TotalInBaseCurrency: NormalizeAmount(total, row.TotalCurrency, base, rate),
			BaseCurrency:        base,
		}
		normalized = append(normalized, tx)
	}

	return normalized
}

// NormalizeAmount converts one total into the base currency. A row already in
// the base currency passes through untouched, so the no-op path cannot
// introduce float drift. All other rows are multiplied by the sanitized rate;
// amounts are never divided.
func NormalizeAmount(total float64, rowCurrency, base string, rate float64) float64 {
	if normalizeCurrency(rowCurrency) == base {
		return total
	}
	return total * SanitizeRateValue(rate)
}

// SanitizeRateValue returns the rate if it is a positive finite number and
// the identity rate 1.0 otherwise. A malformed rate degrades to an identity
// conversion rather than aborting the pipeline.
func SanitizeRateValue(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 1.0
	}
	return rate
}

// normalizeCurrency folds a currency code to its canonical comparison form.
func normalizeCurrency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// parseFloatOrZero reads an optional numeric cell. Blank, malformed, and
// non-finite values all map to zero; required-ness is the validator's job.
func parseFloatOrZero(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
