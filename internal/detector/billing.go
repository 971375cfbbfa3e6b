package detector

import (
	"math"
	"sort"
	"time"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// InferFrequency classifies the median gap between charge dates.
func InferFrequency(dates []time.Time) models.Frequency {
	if len(dates) < 2 {
		return models.FrequencyUnknown
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, math.Round(sorted[i].Sub(sorted[i-1]).Hours()/24))
	}

	gap := median(gaps)
	switch {
	case gap >= 6 && gap <= 8:
		return models.FrequencyWeekly
	case gap >= 26 && gap <= 35:
		return models.FrequencyMonthly
	case gap >= 360 && gap <= 380:
		return models.FrequencyAnnual
	}
	return models.FrequencyUnknown
}

// NextBillingDate projects the charge after last. It returns nil when the
// frequency is unknown.
func NextBillingDate(last time.Time, f models.Frequency) *time.Time {
	var next time.Time
	switch f {
	case models.FrequencyWeekly:
		next = last.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		next = addMonths(last, 1)
	case models.FrequencyAnnual:
		next = addMonths(last, 12)
	default:
		return nil
	}
	return &next
}

// addMonths moves t forward n calendar months, clamping to the last day of
// the target month (Jan 31 + 1 month is Feb 28).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
