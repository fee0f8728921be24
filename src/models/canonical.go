package models

import "time"

// NormalizedTransaction is the unified, typed representation of a transaction
// after validation and currency normalization. The normalizer populates every
// field, including the final amount in the detected base currency; all
// analytics consume this struct and never the raw CSV strings.
type NormalizedTransaction struct {
	Action              string     `json:"action"`
	Kind                ActionKind `json:"kind"`
	Time                time.Time  `json:"time"`
	ISIN                string     `json:"isin"`
	Ticker              string     `json:"ticker"`
	Name                string     `json:"name"`
	Shares              float64    `json:"shares"`
	PricePerShare       float64    `json:"price_per_share"`
	PriceCurrency       string     `json:"price_currency"`
	ExchangeRate        float64    `json:"exchange_rate"` // 0 when the export left the column blank
	Result              float64    `json:"result"`        // Broker-reported realized result, 0 when absent
	Total               float64    `json:"total"`         // Amount in the row's original currency
	TotalCurrency       string     `json:"total_currency"`
	WithholdingTax      float64    `json:"withholding_tax"`
	TaxCurrency         string     `json:"tax_currency"`
	ConversionFee       float64    `json:"conversion_fee"`
	TotalInBaseCurrency float64    `json:"total_in_base_currency"` // Total converted into BaseCurrency
	BaseCurrency        string     `json:"base_currency"`          // Detected once per upload, same on every row
}
