package trading212

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/processors"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const fullHeader = "Action,Time,ISIN,Ticker,Name,No. of shares,Price / share,Currency (Price / share),Exchange rate,Result,Total,Currency (Total),Withholding tax,Currency (Withholding tax),Currency conversion fee"

func TestParseFullExport(t *testing.T) {
	t.Parallel()

	csvData := fullHeader + "\n" +
		"Market buy,2025-03-14 15:30:05,US0378331005,AAPL,Apple Inc.,10,150.00,USD,1.0842,,1383.61,EUR,,,0.21\n" +
		"Market sell,2025-06-20 10:05:00,US0378331005,AAPL,Apple Inc.,5,180.00,USD,1.0700,75.00,841.12,EUR,,,0.18\n" +
		"Dividend (Ordinary),2025-04-01 08:00:00,US0378331005,AAPL,Apple Inc.,10,0.24,USD,1.0800,,2.40,USD,0.36,USD,\n" +
		"Deposit,2025-03-01 09:00:00,,,,,,,,,1000.00,EUR,,,\n"

	txs, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	buy := txs[0]
	require.Equal(t, "Market buy", buy.Action)
	require.Equal(t, models.ActionBuy, buy.Kind)
	require.Equal(t, "2025-03-14 15:30:05", buy.Time)
	require.Equal(t, "US0378331005", buy.ISIN)
	require.Equal(t, "AAPL", buy.Ticker)
	require.Equal(t, "Apple Inc.", buy.Name)
	require.Equal(t, "10", buy.Shares)
	require.Equal(t, "150.00", buy.PricePerShare)
	require.Equal(t, "USD", buy.PriceCurrency)
	require.Equal(t, "1.0842", buy.ExchangeRate)
	require.Equal(t, "", buy.Result)
	require.Equal(t, "1383.61", buy.Total)
	require.Equal(t, "EUR", buy.TotalCurrency)
	require.Equal(t, "0.21", buy.ConversionFee)

	sell := txs[1]
	require.Equal(t, models.ActionSell, sell.Kind)
	require.Equal(t, "75.00", sell.Result)

	div := txs[2]
	require.Equal(t, models.ActionDividend, div.Kind)
	require.Equal(t, "0.36", div.WithholdingTax)
	require.Equal(t, "USD", div.TaxCurrency)

	dep := txs[3]
	require.Equal(t, models.ActionDeposit, dep.Kind)
	require.Equal(t, "", dep.Ticker)
	require.Equal(t, "1000.00", dep.Total)
}

func TestParseHeaderVariations(t *testing.T) {
	t.Parallel()

	t.Run("utf8 byte order mark", func(t *testing.T) {
		t.Parallel()
		csvData := "\uFEFF" + fullHeader + "\n" +
			"Deposit,2025-03-01 09:00:00,,,,,,,,,500.00,EUR,,,\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "Deposit", txs[0].Action)
	})

	t.Run("reordered and unknown columns", func(t *testing.T) {
		t.Parallel()
		csvData := "Total,Notes,Currency (Total),Ticker,Action,No. of shares,Price / share\n" +
			"1200.00,manual entry,USD,MSFT,Market buy,4,300.00\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "Market buy", txs[0].Action)
		require.Equal(t, "MSFT", txs[0].Ticker)
		require.Equal(t, "4", txs[0].Shares)
		require.Equal(t, "1200.00", txs[0].Total)
		require.Equal(t, "USD", txs[0].TotalCurrency)
		// Columns absent from this export come back empty.
		require.Equal(t, "", txs[0].ISIN)
		require.Equal(t, "", txs[0].ExchangeRate)
	})

	t.Run("case insensitive labels", func(t *testing.T) {
		t.Parallel()
		csvData := "ACTION,TOTAL,CURRENCY (TOTAL)\n" +
			"Deposit,100.00,EUR\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "100.00", txs[0].Total)
	})
}

func TestParseMissingRequiredColumns(t *testing.T) {
	t.Parallel()

	csvData := "Action,Time,Ticker\n" +
		"Market buy,2025-03-14 15:30:05,AAPL\n"

	txs, err := NewParser().Parse(strings.NewReader(csvData))
	require.Nil(t, txs)

	var colErr *processors.ColumnValidationError
	require.ErrorAs(t, err, &colErr)
	require.Equal(t, []string{"Total", "Currency (Total)"}, colErr.MissingColumns)
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := NewParser().Parse(strings.NewReader(""))
	require.True(t, errors.Is(err, processors.ErrEmptyFile))
}

func TestParseHeaderOnly(t *testing.T) {
	t.Parallel()

	txs, err := NewParser().Parse(strings.NewReader(fullHeader + "\n"))
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestParseSkipsBlankRows(t *testing.T) {
	t.Parallel()

	csvData := "Action,Total,Currency (Total)\n" +
		"Deposit,100.00,EUR\n" +
		",,\n" +
		"   ,  ,  \n" +
		"Deposit,50.00,EUR\n"

	txs, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "100.00", txs[0].Total)
	require.Equal(t, "50.00", txs[1].Total)
}

func TestParseFieldSanitization(t *testing.T) {
	t.Parallel()

	t.Run("html stripped from name", func(t *testing.T) {
		t.Parallel()
		csvData := "Action,Name,Total,Currency (Total)\n" +
			"Market buy,Apple <b>Inc.</b>,100.00,USD\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "Apple Inc.", txs[0].Name)
	})

	t.Run("overlong name capped", func(t *testing.T) {
		t.Parallel()
		longName := strings.Repeat("a", 300)
		csvData := "Action,Name,Total,Currency (Total)\n" +
			"Market buy," + longName + ",100.00,USD\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Len(t, txs[0].Name, 255)
	})

	t.Run("malformed isin dropped", func(t *testing.T) {
		t.Parallel()
		csvData := "Action,ISIN,Total,Currency (Total)\n" +
			"Market buy,not-an-isin,100.00,USD\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "", txs[0].ISIN)
	})

	t.Run("valid isin uppercased", func(t *testing.T) {
		t.Parallel()
		csvData := "Action,ISIN,Total,Currency (Total)\n" +
			"Market buy,US0378331005,100.00,USD\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Equal(t, "US0378331005", txs[0].ISIN)
	})

	t.Run("action whitespace trimmed before classification", func(t *testing.T) {
		t.Parallel()
		csvData := "Action,Total,Currency (Total)\n" +
			"  Market buy  ,100.00,USD\n"

		txs, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Equal(t, "Market buy", txs[0].Action)
		require.Equal(t, models.ActionBuy, txs[0].Kind)
	})
}

func TestParseMalformedCSV(t *testing.T) {
	t.Parallel()

	// An unterminated quote is a csv syntax error, not a validation error.
	csvData := "Action,Total,Currency (Total)\n" +
		"\"Deposit,100.00,EUR\n"

	_, err := NewParser().Parse(strings.NewReader(csvData))
	require.Error(t, err)
	require.False(t, errors.Is(err, processors.ErrEmptyFile))
}
