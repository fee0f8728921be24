package processors

import (
	"math"
	"sort"
	"strings"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

// ShareEpsilon is the threshold below which a share balance counts as zero.
// Fractional-share arithmetic leaves sub-microshare residue on fully exited
// positions.
const ShareEpsilon = 1e-6

// PositionProcessor folds normalized transactions into per-ticker positions.
type PositionProcessor interface {
	Aggregate(txs []models.NormalizedTransaction) []models.StockPosition
}

type positionProcessorImpl struct{}

// NewPositionProcessor creates a new instance of PositionProcessor.
func NewPositionProcessor() PositionProcessor {
	return &positionProcessorImpl{}
}

// Aggregate groups rows by ticker and folds each group into a position.
// Rows without a ticker (deposits, fees) are excluded entirely; dividend and
// other non-trade rows contribute nothing to share or cash totals but may
// still supply the display name. The fold is a plain sum, so the result is
// independent of row order.
func (p *positionProcessorImpl) Aggregate(txs []models.NormalizedTransaction) []models.StockPosition {
	groups := make(map[string]*models.StockPosition)
	var firstSeen []string

	for _, tx := range txs {
		ticker := strings.TrimSpace(tx.Ticker)
		if ticker == "" {
			continue
		}

		pos, ok := groups[ticker]
		if !ok {
			pos = &models.StockPosition{Ticker: ticker}
			groups[ticker] = pos
			firstSeen = append(firstSeen, ticker)
		}
		if pos.Name == "" && tx.Name != "" {
			pos.Name = tx.Name
		}
		if pos.ISIN == "" && tx.ISIN != "" {
			pos.ISIN = tx.ISIN
		}
		if pos.BaseCurrency == "" {
			pos.BaseCurrency = tx.BaseCurrency
		}

		switch tx.Kind {
		case models.ActionBuy:
			pos.TotalShares += tx.Shares
			pos.TotalInvested += math.Abs(tx.TotalInBaseCurrency)
			pos.BuyCount++
		case models.ActionSell:
			pos.TotalShares -= tx.Shares
			pos.TotalInvested -= math.Abs(tx.TotalInBaseCurrency)
			pos.RealizedResult += tx.Result
			pos.SellCount++
		}
	}

	positions := make([]models.StockPosition, 0, len(groups))
	for _, ticker := range firstSeen {
		pos := groups[ticker]
		if pos.TotalShares > ShareEpsilon {
			pos.Status = models.StatusHolding
		} else {
			pos.Status = models.StatusSold
		}
		positions = append(positions, *pos)
	}

	// Holdings first, then sold positions; inside each bucket the biggest
	// absolute cash commitment comes first.
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.Status != b.Status {
			return a.Status == models.StatusHolding
		}
		ai, bi := math.Abs(a.TotalInvested), math.Abs(b.TotalInvested)
		if ai != bi {
			return ai > bi
		}
		return a.Ticker < b.Ticker
	})

	return positions
}
