package processors

import (
	"math"
	"sort"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// ActivityProcessor derives buy/sell statistics and the calendar heatmap.
type ActivityProcessor interface {
	Stats(txs []models.NormalizedTransaction, years []int) models.TradingStats
	Heatmap(txs []models.NormalizedTransaction, year int) models.ActivityHeatmap
	AvailableYears(txs []models.NormalizedTransaction) []int
}

type activityProcessorImpl struct{}

// NewActivityProcessor creates a new instance of ActivityProcessor.
func NewActivityProcessor() ActivityProcessor {
	return &activityProcessorImpl{}
}

// Stats computes trade counts and volumes plus the win rate over buy/sell rows.
// A non-empty years set restricts the rows to those calendar years; an empty
// set means all years. AvailableYears always reflects the unfiltered rows so
// the year picker never loses options.
func (p *activityProcessorImpl) Stats(txs []models.NormalizedTransaction, years []int) models.TradingStats {
	stats := models.TradingStats{
		AvailableYears: p.AvailableYears(txs),
		SelectedYears:  normalizeYears(years),
	}
	if len(txs) > 0 {
		stats.BaseCurrency = txs[0].BaseCurrency
	}

	selected := make(map[int]bool, len(stats.SelectedYears))
	for _, y := range stats.SelectedYears {
		selected[y] = true
	}

	for _, t := range txs {
		if !t.Kind.IsTrade() {
			continue
		}
		if len(selected) > 0 && !selected[t.Time.Year()] {
			continue
		}
		switch t.Kind {
		case models.ActionBuy:
			stats.BuyCount++
			stats.BuyVolume += math.Abs(t.TotalInBaseCurrency)
		case models.ActionSell:
			stats.SellCount++
			stats.SellVolume += math.Abs(t.TotalInBaseCurrency)
			if t.Result > 0 {
				stats.ProfitableSells++
			}
		}
	}
	stats.TotalTrades = stats.BuyCount + stats.SellCount

	// Zero sells means a win rate of zero, never NaN.
	if stats.SellCount > 0 {
		stats.WinRate = utils.RoundFloat(float64(stats.ProfitableSells)/float64(stats.SellCount)*100, 2)
	}
	return stats
}

// Heatmap builds the per-day trade counts for one calendar year. Every day of
// the year is emitted, trades or not, so the grid renders without gaps.
func (p *activityProcessorImpl) Heatmap(txs []models.NormalizedTransaction, year int) models.ActivityHeatmap {
	counts := make(map[string]int)
	for _, t := range txs {
		if !t.Kind.IsTrade() || t.Time.Year() != year {
			continue
		}
		counts[t.Time.Format(utils.DefaultDateFormat)]++
	}

	heatmap := models.ActivityHeatmap{Year: year, Days: []models.HeatmapDay{}}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan1Offset := int(jan1.Weekday()) // Sunday-start weeks; week 0 holds January 1

	for d := jan1; d.Year() == year; d = d.AddDate(0, 0, 1) {
		dayOfYear := d.YearDay() - 1
		count := counts[d.Format(utils.DefaultDateFormat)]
		heatmap.Days = append(heatmap.Days, models.HeatmapDay{
			Date:    d.Format(utils.DefaultDateFormat),
			Count:   count,
			Week:    (dayOfYear + jan1Offset) / 7,
			Weekday: int(d.Weekday()),
			Level:   levelForCount(count),
		})
		heatmap.TotalTrades += count
		if count > heatmap.MaxCount {
			heatmap.MaxCount = count
		}
	}
	return heatmap
}

// AvailableYears lists the distinct calendar years with at least one trade,
// ascending. Rows without a usable timestamp are skipped.
func (p *activityProcessorImpl) AvailableYears(txs []models.NormalizedTransaction) []int {
	seen := make(map[int]bool)
	for _, t := range txs {
		if !t.Kind.IsTrade() || t.Time.IsZero() {
			continue
		}
		seen[t.Time.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// levelForCount maps a day's trade count onto the heatmap intensity scale.
func levelForCount(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

// normalizeYears dedupes and sorts a year filter so equal selections compare
// and render identically.
func normalizeYears(years []int) []int {
	if len(years) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(years))
	out := make([]int, 0, len(years))
	for _, y := range years {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
