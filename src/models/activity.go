package models

// TradingStats summarizes buy/sell activity, optionally filtered to a set of years.
type TradingStats struct {
	TotalTrades     int     `json:"total_trades"`
	BuyCount        int     `json:"buy_count"`
	SellCount       int     `json:"sell_count"`
	BuyVolume       float64 `json:"buy_volume"`  // Sum of abs(total in base currency) over buys
	SellVolume      float64 `json:"sell_volume"` // Sum of abs(total in base currency) over sells
	ProfitableSells int     `json:"profitable_sells"`
	WinRate         float64 `json:"win_rate"` // Percent, 2 decimals; 0 when there are no sells
	AvailableYears  []int   `json:"available_years"`
	SelectedYears   []int   `json:"selected_years,omitempty"` // Empty means all years
	BaseCurrency    string  `json:"base_currency"`
}

// HeatmapDay is one cell of the activity calendar.
type HeatmapDay struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Week    int    `json:"week"`    // Sunday-start week index; week 0 holds January 1
	Weekday int    `json:"weekday"` // 0 = Sunday
	Level   int    `json:"level"`   // Intensity bucket 0..4
}

// ActivityHeatmap covers every day of one calendar year.
type ActivityHeatmap struct {
	Year        int          `json:"year"`
	Days        []HeatmapDay `json:"days"`
	TotalTrades int          `json:"total_trades"`
	MaxCount    int          `json:"max_count"`
}
