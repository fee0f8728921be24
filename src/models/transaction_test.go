package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action string
		want   ActionKind
	}{
		{"Market buy", ActionBuy},
		{"Limit buy", ActionBuy},
		{"Stop buy", ActionBuy},
		{"market BUY", ActionBuy},
		{"  Market buy  ", ActionBuy},
		{"Market sell", ActionSell},
		{"Limit sell", ActionSell},
		{"Dividend (Ordinary)", ActionDividend},
		{"Dividend (Dividends paid by us corporations)", ActionDividend},
		{"Deposit", ActionDeposit},
		{"Withdrawal", ActionWithdrawal},
		{"Withdraw", ActionWithdrawal},
		{"Interest on cash", ActionInterest},
		{"Lending interest", ActionInterest},
		{"", ActionOther},
		{"Stock split", ActionOther},
		{"Currency conversion", ActionOther},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClassifyAction(tt.action), "action %q", tt.action)
	}
}

func TestClassifyActionDividendBeatsTradeSuffix(t *testing.T) {
	t.Parallel()

	// A label mentioning dividends is a dividend even if it happens to end in
	// a trade word.
	require.Equal(t, ActionDividend, ClassifyAction("Dividend reinvestment buy"))
}

func TestIsTrade(t *testing.T) {
	t.Parallel()

	require.True(t, ActionBuy.IsTrade())
	require.True(t, ActionSell.IsTrade())
	require.False(t, ActionDividend.IsTrade())
	require.False(t, ActionDeposit.IsTrade())
	require.False(t, ActionWithdrawal.IsTrade())
	require.False(t, ActionInterest.IsTrade())
	require.False(t, ActionOther.IsTrade())
}
