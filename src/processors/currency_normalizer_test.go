package processors

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

func rowWithCurrency(cur string) models.RawTransaction {
	return models.RawTransaction{Action: "Deposit", Kind: models.ActionDeposit, Total: "100.00", TotalCurrency: cur}
}

func TestDetectBaseCurrency(t *testing.T) {
	t.Parallel()

	n := NewCurrencyNormalizer("EUR")

	t.Run("majority wins", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			rowWithCurrency("EUR"),
			rowWithCurrency("USD"),
			rowWithCurrency("USD"),
		}
		require.Equal(t, "USD", n.DetectBaseCurrency(rows))
	})

	t.Run("tie resolves to first currency reaching the max", func(t *testing.T) {
		t.Parallel()
		// EUR and USD both end at 2; USD hits count 2 first (row 3).
		rows := []models.RawTransaction{
			rowWithCurrency("EUR"),
			rowWithCurrency("USD"),
			rowWithCurrency("USD"),
			rowWithCurrency("EUR"),
		}
		require.Equal(t, "USD", n.DetectBaseCurrency(rows))
	})

	t.Run("codes folded before counting", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			rowWithCurrency(" usd "),
			rowWithCurrency("USD"),
			rowWithCurrency("EUR"),
		}
		require.Equal(t, "USD", n.DetectBaseCurrency(rows))
	})

	t.Run("no currencies falls back to default", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			rowWithCurrency(""),
			rowWithCurrency("  "),
		}
		require.Equal(t, "EUR", n.DetectBaseCurrency(rows))
		require.Equal(t, "EUR", n.DetectBaseCurrency(nil))
	})

	t.Run("constructor default falls back when blank", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, DefaultBaseCurrency, NewCurrencyNormalizer("").DetectBaseCurrency(nil))
		require.Equal(t, "GBP", NewCurrencyNormalizer("gbp").DetectBaseCurrency(nil))
	})
}

func TestSanitizeRateValue(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.0842, SanitizeRateValue(1.0842))
	require.Equal(t, 1.0, SanitizeRateValue(0))
	require.Equal(t, 1.0, SanitizeRateValue(-0.5))
	require.Equal(t, 1.0, SanitizeRateValue(math.NaN()))
	require.Equal(t, 1.0, SanitizeRateValue(math.Inf(1)))
	require.Equal(t, 1.0, SanitizeRateValue(math.Inf(-1)))
}

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	t.Run("same currency is bit exact", func(t *testing.T) {
		t.Parallel()
		// 0.1+0.2 is not representable exactly; a multiply by 1.0 would still
		// be exact, but the point is the value must pass through untouched.
		total := 0.1 + 0.2
		require.True(t, NormalizeAmount(total, "EUR", "EUR", 1.0842) == total)
		require.True(t, NormalizeAmount(total, " eur ", "EUR", 0) == total)
	})

	t.Run("foreign currency multiplied by rate", func(t *testing.T) {
		t.Parallel()
		require.InDelta(t, 108.42, NormalizeAmount(100, "USD", "EUR", 1.0842), 1e-9)
	})

	t.Run("bad rate degrades to identity", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, 100.0, NormalizeAmount(100, "USD", "EUR", 0))
		require.Equal(t, 100.0, NormalizeAmount(100, "USD", "EUR", -3))
		require.Equal(t, 100.0, NormalizeAmount(100, "USD", "EUR", math.NaN()))
	})
}

func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	n := NewCurrencyNormalizer("EUR")

	t.Run("field mapping and conversion", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			{
				Action:         "Dividend (Ordinary)",
				Kind:           models.ActionDividend,
				Time:           "2025-04-01 08:00:00",
				ISIN:           "US0378331005",
				Ticker:         "AAPL",
				Name:           "Apple Inc.",
				Shares:         "10",
				PricePerShare:  "0.24",
				PriceCurrency:  "usd",
				ExchangeRate:   "1.08",
				Total:          "2.40",
				TotalCurrency:  "USD",
				WithholdingTax: "0.36",
				TaxCurrency:    "USD",
				ConversionFee:  "0.02",
			},
			rowWithCurrency("EUR"),
			rowWithCurrency("EUR"),
		}

		normalized := n.NormalizeAll(rows)
		require.Len(t, normalized, 3)

		div := normalized[0]
		require.Equal(t, "Dividend (Ordinary)", div.Action)
		require.Equal(t, models.ActionDividend, div.Kind)
		require.Equal(t, time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC), div.Time)
		require.Equal(t, "US0378331005", div.ISIN)
		require.Equal(t, "AAPL", div.Ticker)
		require.Equal(t, 10.0, div.Shares)
		require.Equal(t, 0.24, div.PricePerShare)
		require.Equal(t, "USD", div.PriceCurrency)
		require.Equal(t, 1.08, div.ExchangeRate)
		require.Equal(t, 2.40, div.Total)
		require.Equal(t, "USD", div.TotalCurrency)
		require.Equal(t, 0.36, div.WithholdingTax)
		require.Equal(t, 0.02, div.ConversionFee)
		// Base is EUR (2 of 3 rows), so the USD dividend converts.
		require.Equal(t, "EUR", div.BaseCurrency)
		require.InDelta(t, 2.40*1.08, div.TotalInBaseCurrency, 1e-9)

		// EUR rows pass through with the identical total.
		require.True(t, normalized[1].TotalInBaseCurrency == normalized[1].Total)
	})

	t.Run("unparseable timestamp keeps zero time", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			{Action: "Deposit", Kind: models.ActionDeposit, Time: "not a date", Total: "100", TotalCurrency: "EUR"},
		}

		normalized := n.NormalizeAll(rows)
		require.Len(t, normalized, 1)
		require.True(t, normalized[0].Time.IsZero())
	})

	t.Run("blank cells become zero values", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			{Action: "Deposit", Kind: models.ActionDeposit, Total: "100", TotalCurrency: "EUR"},
		}

		normalized := n.NormalizeAll(rows)
		require.Equal(t, 0.0, normalized[0].Shares)
		require.Equal(t, 0.0, normalized[0].ExchangeRate)
		require.Equal(t, 0.0, normalized[0].WithholdingTax)
		require.True(t, normalized[0].Time.IsZero())
	})

	t.Run("classifies kind when unset", func(t *testing.T) {
		t.Parallel()
		rows := []models.RawTransaction{
			{Action: "Limit buy", Ticker: "MSFT", Shares: "1", PricePerShare: "300", Total: "300", TotalCurrency: "EUR"},
		}

		normalized := n.NormalizeAll(rows)
		require.Equal(t, models.ActionBuy, normalized[0].Kind)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, n.NormalizeAll(nil))
	})
}
