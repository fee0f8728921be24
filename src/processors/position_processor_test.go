package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

func buyTx(ticker string, shares, total float64) models.NormalizedTransaction {
	return models.NormalizedTransaction{
		Action:              "Market buy",
		Kind:                models.ActionBuy,
		Time:                time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		Ticker:              ticker,
		Shares:              shares,
		Total:               total,
		TotalInBaseCurrency: total,
		BaseCurrency:        "EUR",
	}
}

func sellTx(ticker string, shares, total, result float64) models.NormalizedTransaction {
	return models.NormalizedTransaction{
		Action:              "Market sell",
		Kind:                models.ActionSell,
		Time:                time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		Ticker:              ticker,
		Shares:              shares,
		Result:              result,
		Total:               total,
		TotalInBaseCurrency: total,
		BaseCurrency:        "EUR",
	}
}

func TestAggregateSinglePosition(t *testing.T) {
	t.Parallel()

	p := NewPositionProcessor()

	t.Run("open position", func(t *testing.T) {
		t.Parallel()
		txs := []models.NormalizedTransaction{
			buyTx("AAPL", 10, 1000),
			buyTx("AAPL", 5, 600),
		}

		positions := p.Aggregate(txs)
		require.Len(t, positions, 1)

		pos := positions[0]
		require.Equal(t, "AAPL", pos.Ticker)
		require.Equal(t, 15.0, pos.TotalShares)
		require.Equal(t, 1600.0, pos.TotalInvested)
		require.Equal(t, 2, pos.BuyCount)
		require.Equal(t, 0, pos.SellCount)
		require.Equal(t, models.StatusHolding, pos.Status)
		require.Equal(t, "EUR", pos.BaseCurrency)
	})

	t.Run("fully exited position", func(t *testing.T) {
		t.Parallel()
		// buy 10 for 1000, sell 10 for 1200 with a broker-reported gain of 200:
		// shares 10-10 = 0, invested 1000-1200 = -200, realized = 200.
		txs := []models.NormalizedTransaction{
			buyTx("AAPL", 10, 1000),
			sellTx("AAPL", 10, 1200, 200),
		}

		positions := p.Aggregate(txs)
		require.Len(t, positions, 1)

		pos := positions[0]
		require.Equal(t, 0.0, pos.TotalShares)
		require.Equal(t, -200.0, pos.TotalInvested)
		require.Equal(t, 200.0, pos.RealizedResult)
		require.Equal(t, models.StatusSold, pos.Status)
	})

	t.Run("fractional residue counts as sold", func(t *testing.T) {
		t.Parallel()
		txs := []models.NormalizedTransaction{
			buyTx("AAPL", 0.3333333, 50),
			sellTx("AAPL", 0.3333330, 52, 2),
		}

		positions := p.Aggregate(txs)
		require.Len(t, positions, 1)
		// Residue of 3e-7 shares is below the epsilon.
		require.Equal(t, models.StatusSold, positions[0].Status)
	})

	t.Run("negative totals folded by magnitude", func(t *testing.T) {
		t.Parallel()
		// Some exports carry buy totals as negative cash movements.
		txs := []models.NormalizedTransaction{
			buyTx("AAPL", 10, -1000),
		}

		positions := p.Aggregate(txs)
		require.Equal(t, 1000.0, positions[0].TotalInvested)
	})
}

func TestAggregateOrderIndependence(t *testing.T) {
	t.Parallel()

	p := NewPositionProcessor()
	forward := []models.NormalizedTransaction{
		buyTx("AAPL", 10, 1000),
		sellTx("AAPL", 4, 480, 80),
		buyTx("AAPL", 2, 210),
	}
	reversed := []models.NormalizedTransaction{forward[2], forward[1], forward[0]}

	a := p.Aggregate(forward)
	b := p.Aggregate(reversed)
	require.Equal(t, a, b)
}

func TestAggregateNonTradeRows(t *testing.T) {
	t.Parallel()

	p := NewPositionProcessor()

	t.Run("rows without ticker excluded", func(t *testing.T) {
		t.Parallel()
		txs := []models.NormalizedTransaction{
			{Action: "Deposit", Kind: models.ActionDeposit, Total: 1000, TotalInBaseCurrency: 1000},
			buyTx("AAPL", 1, 100),
		}

		positions := p.Aggregate(txs)
		require.Len(t, positions, 1)
		require.Equal(t, "AAPL", positions[0].Ticker)
	})

	t.Run("dividend only ticker becomes zero share position", func(t *testing.T) {
		t.Parallel()
		txs := []models.NormalizedTransaction{
			{
				Action:              "Dividend (Ordinary)",
				Kind:                models.ActionDividend,
				Ticker:              "KO",
				Name:                "Coca-Cola",
				ISIN:                "US1912161007",
				Shares:              12,
				Total:               5.40,
				TotalInBaseCurrency: 5.40,
			},
		}

		positions := p.Aggregate(txs)
		require.Len(t, positions, 1)

		pos := positions[0]
		require.Equal(t, "KO", pos.Ticker)
		require.Equal(t, "Coca-Cola", pos.Name)
		require.Equal(t, "US1912161007", pos.ISIN)
		// Dividends move no shares and no invested cash.
		require.Equal(t, 0.0, pos.TotalShares)
		require.Equal(t, 0.0, pos.TotalInvested)
		require.Equal(t, models.StatusSold, pos.Status)
	})

	t.Run("name filled from first row that has one", func(t *testing.T) {
		t.Parallel()
		txs := []models.NormalizedTransaction{
			buyTx("AAPL", 1, 100),
			{Action: "Dividend (Ordinary)", Kind: models.ActionDividend, Ticker: "AAPL", Name: "Apple Inc.", Total: 1, TotalInBaseCurrency: 1},
		}

		positions := p.Aggregate(txs)
		require.Equal(t, "Apple Inc.", positions[0].Name)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, p.Aggregate(nil))
	})
}

func TestAggregateSortOrder(t *testing.T) {
	t.Parallel()

	p := NewPositionProcessor()
	txs := []models.NormalizedTransaction{
		// Sold position with the largest absolute invested value.
		buyTx("SOLD", 10, 5000),
		sellTx("SOLD", 10, 5200, 200),
		// Two holdings with different sizes.
		buyTx("SMALL", 1, 100),
		buyTx("BIG", 10, 3000),
		// Holding that ties SMALL on invested; ticker breaks the tie.
		buyTx("ALSO", 1, 100),
	}

	positions := p.Aggregate(txs)
	require.Len(t, positions, 4)

	var tickers []string
	for _, pos := range positions {
		tickers = append(tickers, pos.Ticker)
	}
	// Holdings first (largest invested first, ties by ticker), sold last.
	require.Equal(t, []string{"BIG", "ALSO", "SMALL", "SOLD"}, tickers)
}
