package detector

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// roundPence rounds half away from zero to two decimal places.
func roundPence(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// pence formats v to exactly two decimal places for use in keys.
func pence(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// MonthlyTotal sums subscription costs as a monthly equivalent. Weekly
// charges count 52/12 times, annual ones 1/12, unknown cadences once.
func MonthlyTotal(subs []models.ParsedSubscription) float64 {
	total := decimal.Zero
	weeksPerMonth := decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	for _, s := range subs {
		cost := decimal.NewFromFloat(s.Cost)
		switch s.Frequency {
		case models.FrequencyWeekly:
			cost = cost.Mul(weeksPerMonth)
		case models.FrequencyAnnual:
			cost = cost.Div(decimal.NewFromInt(12))
		}
		total = total.Add(cost)
	}
	f, _ := total.Round(2).Float64()
	return f
}
