package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// Default thresholds for the partial-data heuristics.
const (
	// DefaultEarlySellWindow is how far into the export window a sell still
	// counts as suspiciously early.
	DefaultEarlySellWindow = 7 * 24 * time.Hour
	// DefaultMinSpanForEarlySell is the minimum export span before the
	// early-sell signal applies; shorter files are too ambiguous to judge.
	DefaultMinSpanForEarlySell = 30 * 24 * time.Hour
)

// PartialDataDetector flags uploads that probably do not cover a position's
// full history. Heuristic only: it never blocks aggregation, it annotates it.
type PartialDataDetector interface {
	Detect(txs []models.NormalizedTransaction) models.PartialDataWarning
}

type partialDataDetectorImpl struct {
	earlySellWindow time.Duration
	minSpan         time.Duration
}

// NewPartialDataDetector creates a detector with the default thresholds.
func NewPartialDataDetector() PartialDataDetector {
	return NewPartialDataDetectorWithThresholds(DefaultEarlySellWindow, DefaultMinSpanForEarlySell)
}

// NewPartialDataDetectorWithThresholds creates a detector with custom
// early-sell and minimum-span thresholds.
func NewPartialDataDetectorWithThresholds(earlySellWindow, minSpan time.Duration) PartialDataDetector {
	return &partialDataDetectorImpl{earlySellWindow: earlySellWindow, minSpan: minSpan}
}

// tickerSignals records which heuristics fired for one ticker.
type tickerSignals struct {
	netNegative bool
	sellFirst   bool
	earlySell   bool
}

// Detect runs three independent signals over each ticker's trade rows: a
// net-negative share balance and a sell before any buy (both high), plus
// selling inside the first week of a file spanning over a month (medium).
// On any input it cannot characterize it degrades to a non-warning.
func (d *partialDataDetectorImpl) Detect(txs []models.NormalizedTransaction) models.PartialDataWarning {
	warning := models.PartialDataWarning{
		AffectedTickers: []string{},
		Reasons:         []string{},
		Confidence:      models.ConfidenceLow,
	}

	var rangeStart, rangeEnd time.Time
	for _, t := range txs {
		if t.Time.IsZero() {
			continue
		}
		if rangeStart.IsZero() || t.Time.Before(rangeStart) {
			rangeStart = t.Time
		}
		if rangeEnd.IsZero() || t.Time.After(rangeEnd) {
			rangeEnd = t.Time
		}
	}
	if !rangeStart.IsZero() {
		warning.DateRange = models.DateRange{
			Start: utils.FormatDate(rangeStart),
			End:   utils.FormatDate(rangeEnd),
		}
	}

	trades := make(map[string][]models.NormalizedTransaction)
	for _, t := range txs {
		if !t.Kind.IsTrade() || t.Ticker == "" {
			continue
		}
		trades[t.Ticker] = append(trades[t.Ticker], t)
	}
	if len(trades) == 0 {
		return warning
	}

	spanWideEnough := !rangeStart.IsZero() && rangeEnd.Sub(rangeStart) > d.minSpan
	earlyCutoff := rangeStart.Add(d.earlySellWindow)

	signals := make(map[string]*tickerSignals)
	for ticker, rows := range trades {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })

		sig := &tickerSignals{}
		netShares := 0.0
		for _, t := range rows {
			switch t.Kind {
			case models.ActionBuy:
				netShares += t.Shares
			case models.ActionSell:
				netShares -= t.Shares
				if spanWideEnough && !t.Time.IsZero() && t.Time.Before(earlyCutoff) {
					sig.earlySell = true
				}
			}
		}
		sig.netNegative = netShares < -ShareEpsilon
		sig.sellFirst = rows[0].Kind == models.ActionSell

		if sig.netNegative || sig.sellFirst || sig.earlySell {
			signals[ticker] = sig
		}
	}
	if len(signals) == 0 {
		return warning
	}

	affected := make([]string, 0, len(signals))
	for ticker := range signals {
		affected = append(affected, ticker)
	}
	sort.Strings(affected)

	confidence := models.ConfidenceLow
	for _, ticker := range affected {
		sig := signals[ticker]
		if sig.netNegative {
			warning.Reasons = append(warning.Reasons, fmt.Sprintf("%s: more shares sold than bought in this file", ticker))
			confidence = models.ConfidenceHigh
		}
		if sig.sellFirst {
			warning.Reasons = append(warning.Reasons, fmt.Sprintf("%s: first recorded trade is a sell", ticker))
			confidence = models.ConfidenceHigh
		}
		if sig.earlySell {
			warning.Reasons = append(warning.Reasons, fmt.Sprintf("%s: sells occur within the first week of the export window", ticker))
			if confidence != models.ConfidenceHigh {
				confidence = models.ConfidenceMedium
			}
		}
	}

	warning.IsPartialData = true
	warning.AffectedTickers = affected
	warning.Confidence = confidence
	return warning
}
