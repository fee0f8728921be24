package models

// PositionStatus marks whether a position is still held or fully exited.
type PositionStatus string

const (
	StatusHolding PositionStatus = "holding"
	StatusSold    PositionStatus = "sold"
)

// StockPosition represents the aggregate of all buy/sell rows for one ticker.
type StockPosition struct {
	Ticker         string         `json:"ticker"`
	Name           string         `json:"name"`
	ISIN           string         `json:"isin,omitempty"`
	TotalShares    float64        `json:"total_shares"`
	TotalInvested  float64        `json:"total_invested"` // Net cash in; negative means sold for more than cost
	RealizedResult float64        `json:"realized_result"`
	BuyCount       int            `json:"buy_count"`
	SellCount      int            `json:"sell_count"`
	BaseCurrency   string         `json:"base_currency"`
	Status         PositionStatus `json:"status"`
}
