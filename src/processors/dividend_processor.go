package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// DividendProcessor derives dividend analytics from normalized transactions.
type DividendProcessor interface {
	Records(txs []models.NormalizedTransaction) []models.DividendRecord
	Summarize(txs []models.NormalizedTransaction, positions []models.StockPosition) models.DividendSummary
}

type dividendProcessorImpl struct {
	now func() time.Time
}

// NewDividendProcessor creates a new instance of DividendProcessor.
func NewDividendProcessor() DividendProcessor {
	return &dividendProcessorImpl{now: time.Now}
}

// NewDividendProcessorAt creates a DividendProcessor with a pinned clock.
// The annual-income projection depends on what "the current year" is.
func NewDividendProcessorAt(now func() time.Time) DividendProcessor {
	return &dividendProcessorImpl{now: now}
}

// Records extracts every dividend row as an exchange-rate-normalized record.
// The dividend path applies the row's own rate independently of the detected
// base currency; dividend rows may carry their own conversion.
func (p *dividendProcessorImpl) Records(txs []models.NormalizedTransaction) []models.DividendRecord {
	var records []models.DividendRecord
	for _, t := range txs {
		if t.Kind != models.ActionDividend {
			continue
		}
		rate := SanitizeRateValue(t.ExchangeRate)
		gross := t.Total * rate
		tax := t.WithholdingTax * rate

		date := ""
		if !t.Time.IsZero() {
			date = utils.FormatDate(t.Time)
		}
		records = append(records, models.DividendRecord{
			Date:     date,
			Ticker:   t.Ticker,
			Name:     t.Name,
			Shares:   t.Shares,
			GrossAmt: gross,
			TaxAmt:   tax,
			NetAmt:   gross - tax,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Ticker < records[j].Ticker
	})
	return records
}

// tickerAccumulator carries the running per-ticker dividend figures.
type tickerAccumulator struct {
	name   string
	gross  float64
	tax    float64
	net    float64
	count  int
	months map[string]bool
}

// Summarize aggregates all dividend rows into totals, calendar buckets,
// per-ticker summaries, and the projected annual income. Amounts keep full
// precision; only the derived yield percentage is rounded.
func (p *dividendProcessorImpl) Summarize(txs []models.NormalizedTransaction, positions []models.StockPosition) models.DividendSummary {
	summary := models.DividendSummary{
		ByMonth:   []models.PeriodTotal{},
		ByQuarter: []models.PeriodTotal{},
		ByYear:    []models.PeriodTotal{},
		ByTicker:  []models.StockDividendSummary{},
	}
	if len(txs) > 0 {
		summary.BaseCurrency = txs[0].BaseCurrency
	}

	byMonth := make(map[string]float64)
	byQuarter := make(map[string]float64)
	byYear := make(map[string]float64)
	globalMonths := make(map[string]bool)
	tickers := make(map[string]*tickerAccumulator)
	var tickerOrder []string

	for _, t := range txs {
		if t.Kind != models.ActionDividend {
			continue
		}
		rate := SanitizeRateValue(t.ExchangeRate)
		gross := t.Total * rate
		tax := t.WithholdingTax * rate
		net := gross - tax

		summary.TotalGross += gross
		summary.TotalTax += tax
		summary.TotalNet += net
		summary.PaymentCount++

		acc, ok := tickers[t.Ticker]
		if !ok {
			acc = &tickerAccumulator{months: make(map[string]bool)}
			tickers[t.Ticker] = acc
			tickerOrder = append(tickerOrder, t.Ticker)
		}
		if acc.name == "" {
			acc.name = t.Name
		}
		acc.gross += gross
		acc.tax += tax
		acc.net += net
		acc.count++

		// Undated rows still count toward totals, but cannot be bucketed.
		if t.Time.IsZero() {
			continue
		}
		monthKey := t.Time.Format("2006-01")
		quarterKey := fmt.Sprintf("%d-Q%d", t.Time.Year(), (int(t.Time.Month())-1)/3+1)
		yearKey := t.Time.Format("2006")

		byMonth[monthKey] += net
		byQuarter[quarterKey] += net
		byYear[yearKey] += net
		globalMonths[monthKey] = true
		acc.months[monthKey] = true
	}

	summary.HasData = summary.PaymentCount > 0
	summary.MonthsWithPayments = len(globalMonths)
	summary.ByMonth = sortedPeriods(byMonth)
	summary.ByQuarter = sortedPeriods(byQuarter)
	summary.ByYear = sortedPeriods(byYear)

	// Yield is only meaningful against a live cost basis.
	yieldBasis := make(map[string]float64, len(positions))
	for _, pos := range positions {
		if pos.Status == models.StatusHolding && pos.TotalInvested > 0 {
			yieldBasis[pos.Ticker] = pos.TotalInvested
		}
	}

	for _, ticker := range tickerOrder {
		acc := tickers[ticker]
		entry := models.StockDividendSummary{
			Ticker:             ticker,
			Name:               acc.name,
			GrossAmt:           acc.gross,
			TaxAmt:             acc.tax,
			NetAmt:             acc.net,
			PaymentCount:       acc.count,
			MonthsWithPayments: len(acc.months),
		}
		if len(acc.months) > 0 {
			entry.AnnualizedDividend = acc.net / float64(len(acc.months)) * 12
		}
		if basis, ok := yieldBasis[ticker]; ok {
			entry.YieldOnCost = utils.RoundFloat(entry.AnnualizedDividend/basis*100, 2)
			entry.HasYield = true
		}
		summary.ByTicker = append(summary.ByTicker, entry)
	}
	sort.SliceStable(summary.ByTicker, func(i, j int) bool {
		if summary.ByTicker[i].NetAmt != summary.ByTicker[j].NetAmt {
			return summary.ByTicker[i].NetAmt > summary.ByTicker[j].NetAmt
		}
		return summary.ByTicker[i].Ticker < summary.ByTicker[j].Ticker
	})

	summary.ProjectedAnnualNet = p.projectAnnualNet(byYear, summary.TotalNet, summary.MonthsWithPayments)
	return summary
}

// projectAnnualNet picks the current calendar year's recorded total when one
// exists and falls back to a monthly run-rate otherwise.
func (p *dividendProcessorImpl) projectAnnualNet(byYear map[string]float64, totalNet float64, monthsWithPayments int) float64 {
	currentYear := p.now().Format("2006")
	if net, ok := byYear[currentYear]; ok {
		return net
	}
	if monthsWithPayments == 0 {
		return 0
	}
	return totalNet / float64(monthsWithPayments) * 12
}

// sortedPeriods flattens a bucket map into a slice ordered by period key.
// The key formats sort correctly as plain strings.
func sortedPeriods(buckets map[string]float64) []models.PeriodTotal {
	periods := make([]models.PeriodTotal, 0, len(buckets))
	for period, net := range buckets {
		periods = append(periods, models.PeriodTotal{Period: period, NetAmt: net})
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Period < periods[j].Period })
	return periods
}
