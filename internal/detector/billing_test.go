package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInferFrequency(t *testing.T) {
	tests := []struct {
		name     string
		dates    []string
		expected models.Frequency
	}{
		{"weekly", []string{"2025-01-01", "2025-01-08", "2025-01-15"}, models.FrequencyWeekly},
		{"monthly", []string{"2025-01-01", "2025-01-31", "2025-03-02"}, models.FrequencyMonthly},
		{"monthly unsorted", []string{"2025-03-03", "2025-01-03", "2025-02-03"}, models.FrequencyMonthly},
		{"annual", []string{"2023-03-01", "2024-03-01"}, models.FrequencyAnnual},
		{"fortnightly is unknown", []string{"2025-01-01", "2025-01-15", "2025-01-29"}, models.FrequencyUnknown},
		{"single date", []string{"2025-01-01"}, models.FrequencyUnknown},
		{"none", nil, models.FrequencyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			for _, d := range tt.dates {
				dates = append(dates, day(d))
			}
			assert.Equal(t, tt.expected, InferFrequency(dates))
		})
	}
}

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		last     string
		freq     models.Frequency
		expected string
	}{
		{"2025-01-31", models.FrequencyMonthly, "2025-02-28"},
		{"2024-01-31", models.FrequencyMonthly, "2024-02-29"},
		{"2025-03-15", models.FrequencyMonthly, "2025-04-15"},
		{"2025-12-31", models.FrequencyMonthly, "2026-01-31"},
		{"2025-08-03", models.FrequencyWeekly, "2025-08-10"},
		{"2025-12-29", models.FrequencyWeekly, "2026-01-05"},
		{"2024-02-29", models.FrequencyAnnual, "2025-02-28"},
		{"2025-06-01", models.FrequencyAnnual, "2026-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.last+" "+string(tt.freq), func(t *testing.T) {
			got := NextBillingDate(day(tt.last), tt.freq)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Format(models.DateLayout))
		})
	}
}

func TestNextBillingDateUnknown(t *testing.T) {
	assert.Nil(t, NextBillingDate(day("2025-01-31"), models.FrequencyUnknown))
}
