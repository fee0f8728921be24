package models

// CashFlowSummary aggregates the non-trade cash rows of an upload.
// These rows are excluded from position and dividend math; this is a
// separate read-only view over the same normalized slice.
type CashFlowSummary struct {
	TotalDeposits       float64 `json:"total_deposits"`
	DepositCount        int     `json:"deposit_count"`
	TotalWithdrawals    float64 `json:"total_withdrawals"` // Absolute value
	WithdrawalCount     int     `json:"withdrawal_count"`
	TotalInterest       float64 `json:"total_interest"`
	InterestCount       int     `json:"interest_count"`
	TotalConversionFees float64 `json:"total_conversion_fees"` // Summed across all rows
	NetDeposited        float64 `json:"net_deposited"`         // Deposits minus withdrawals
	BaseCurrency        string  `json:"base_currency"`
}
