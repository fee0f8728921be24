package models

import "strings"

// ActionKind is the closed classification of a broker action label.
// Classification happens once, at the parse boundary; downstream code
// switches on the enum and never on raw action strings.
type ActionKind string

const (
	ActionBuy        ActionKind = "BUY"
	ActionSell       ActionKind = "SELL"
	ActionDividend   ActionKind = "DIVIDEND"
	ActionDeposit    ActionKind = "DEPOSIT"
	ActionWithdrawal ActionKind = "WITHDRAWAL"
	ActionInterest   ActionKind = "INTEREST"
	ActionOther      ActionKind = "OTHER"
)

// IsTrade reports whether the kind is a buy or sell order.
func (k ActionKind) IsTrade() bool {
	return k == ActionBuy || k == ActionSell
}

// ClassifyAction maps a broker action label onto ActionKind.
// Unrecognized labels map to ActionOther, never to an error: exports keep
// growing new action vocabulary and unknown rows must still flow through.
func ClassifyAction(action string) ActionKind {
	a := strings.ToLower(strings.TrimSpace(action))
	switch {
	case a == "":
		return ActionOther
	case strings.Contains(a, "dividend"):
		return ActionDividend
	case strings.HasSuffix(a, "buy"): // "Market buy", "Limit buy", "Stop buy"
		return ActionBuy
	case strings.HasSuffix(a, "sell"):
		return ActionSell
	case strings.Contains(a, "withdraw"):
		return ActionWithdrawal
	case strings.Contains(a, "deposit"):
		return ActionDeposit
	case strings.Contains(a, "interest"):
		return ActionInterest
	default:
		return ActionOther
	}
}

// RawTransaction represents a single data row from the CSV file.
// Every value is kept as the exact string exported by the broker; typed
// coercion happens during normalization, after row validation.
type RawTransaction struct {
	Action         string     `json:"action"`          // Action label, e.g. "Market buy"
	Kind           ActionKind `json:"kind"`            // Classified at the parse boundary
	Time           string     `json:"time"`            // Timestamp of the transaction
	ISIN           string     `json:"isin"`            // ISIN code of the instrument
	Ticker         string     `json:"ticker"`          // Ticker symbol, empty on cash rows
	Name           string     `json:"name"`            // Instrument display name
	Shares         string     `json:"shares"`          // "No. of shares"
	PricePerShare  string     `json:"price_per_share"` // "Price / share"
	PriceCurrency  string     `json:"price_currency"`  // "Currency (Price / share)"
	ExchangeRate   string     `json:"exchange_rate"`   // Rate to the account currency, may be blank
	Result         string     `json:"result"`          // Broker-reported realized result on sells
	Total          string     `json:"total"`           // Signed or unsigned monetary amount
	TotalCurrency  string     `json:"total_currency"`  // "Currency (Total)"
	WithholdingTax string     `json:"withholding_tax"` // Tax withheld on dividend rows
	TaxCurrency    string     `json:"tax_currency"`    // "Currency (Withholding tax)"
	ConversionFee  string     `json:"conversion_fee"`  // "Currency conversion fee"
}
