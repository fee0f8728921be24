package processors

import (
	"math"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

// CashFlowProcessor aggregates the non-trade cash rows of an upload:
// deposits, withdrawals, interest, and conversion fees. These rows never
// enter position or dividend math.
type CashFlowProcessor interface {
	Summarize(txs []models.NormalizedTransaction) models.CashFlowSummary
}

type cashFlowProcessorImpl struct{}

// NewCashFlowProcessor creates a new instance of CashFlowProcessor.
func NewCashFlowProcessor() CashFlowProcessor {
	return &cashFlowProcessorImpl{}
}

func (p *cashFlowProcessorImpl) Summarize(txs []models.NormalizedTransaction) models.CashFlowSummary {
	summary := models.CashFlowSummary{}
	if len(txs) > 0 {
		summary.BaseCurrency = txs[0].BaseCurrency
	}

	for _, t := range txs {
		switch t.Kind {
		case models.ActionDeposit:
			summary.TotalDeposits += math.Abs(t.TotalInBaseCurrency)
			summary.DepositCount++
		case models.ActionWithdrawal:
			summary.TotalWithdrawals += math.Abs(t.TotalInBaseCurrency)
			summary.WithdrawalCount++
		case models.ActionInterest:
			summary.TotalInterest += t.TotalInBaseCurrency
			summary.InterestCount++
		}
		// The conversion-fee column appears on rows of every kind.
		summary.TotalConversionFees += math.Abs(t.ConversionFee)
	}

	summary.NetDeposited = summary.TotalDeposits - summary.TotalWithdrawals
	return summary
}
