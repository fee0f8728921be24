package models

// DividendRecord is one dividend payment, exchange-rate-normalized.
type DividendRecord struct {
	Date     string  `json:"date"` // Day-level date of the payment
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Shares   float64 `json:"shares"` // Shares held at payment, as reported
	GrossAmt float64 `json:"gross_amt"`
	TaxAmt   float64 `json:"tax_amt"`
	NetAmt   float64 `json:"net_amt"`
}

// StockDividendSummary holds the aggregated dividend figures for one ticker.
type StockDividendSummary struct {
	Ticker             string  `json:"ticker"`
	Name               string  `json:"name"`
	GrossAmt           float64 `json:"gross_amt"`
	TaxAmt             float64 `json:"tax_amt"`
	NetAmt             float64 `json:"net_amt"`
	PaymentCount       int     `json:"payment_count"`
	MonthsWithPayments int     `json:"months_with_payments"`
	AnnualizedDividend float64 `json:"annualized_dividend"` // Monthly net average x 12
	YieldOnCost        float64 `json:"yield_on_cost"`       // Percent, 2 decimals; only when HasYield
	HasYield           bool    `json:"has_yield"`           // Only currently-held positions with positive cost basis
}

// PeriodTotal is the net dividend total for one calendar bucket.
// Period keys ("2025-07", "2025-Q3", "2025") sort lexicographically.
type PeriodTotal struct {
	Period string  `json:"period"`
	NetAmt float64 `json:"net_amt"`
}

// DividendSummary is the full dividend analytics view for one upload.
type DividendSummary struct {
	TotalGross         float64                `json:"total_gross"`
	TotalTax           float64                `json:"total_tax"`
	TotalNet           float64                `json:"total_net"`
	PaymentCount       int                    `json:"payment_count"`
	MonthsWithPayments int                    `json:"months_with_payments"`
	ProjectedAnnualNet float64                `json:"projected_annual_net"`
	BaseCurrency       string                 `json:"base_currency"`
	ByMonth            []PeriodTotal          `json:"by_month"`
	ByQuarter          []PeriodTotal          `json:"by_quarter"`
	ByYear             []PeriodTotal          `json:"by_year"`
	ByTicker           []StockDividendSummary `json:"by_ticker"` // Sorted by net total, descending
	HasData            bool                   `json:"has_data"`
}
