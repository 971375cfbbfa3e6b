package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCSV(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Date,Description,Amount\n03/08/2025,NETFLIX,-9.99", true},
		{"\n  Transaction Date,Details,Money In,Money Out", true},
		{"03/08/2025 NETFLIX, LONDON 9.99", false},
		{"Date Description Amount", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCSV(tt.input))
		})
	}
}

func TestParseCSVSignedAmount(t *testing.T) {
	input := `Date,Description,Amount
03/08/2025,NETFLIX.COM,-9.99
04/08/2025,SALARY,2000.00
bad-date,SPOTIFY,-10.99
05/08/2025,,-3.00
06/08/2025,SPOTIFY,abc
07/08/2025,"AMAZON PRIME, UK","-8.99"`

	txns := ParseCSV(input, 2025)
	require.Len(t, txns, 3)

	assert.Equal(t, time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "NETFLIX.COM", txns[0].Description)
	assert.InDelta(t, -9.99, txns[0].Amount, 0.001)

	assert.InDelta(t, 2000.00, txns[1].Amount, 0.001)

	assert.Equal(t, "AMAZON PRIME, UK", txns[2].Description)
	assert.InDelta(t, -8.99, txns[2].Amount, 0.001)
}

func TestParseCSVMoneyInOut(t *testing.T) {
	input := `Transaction Date,Transaction Description,Money In,Money Out,Balance
2025-08-03,SPOTIFY,,10.99,500.00
2025-08-04,REFUND,5.00,,505.00
2025-08-05,EMPTY ROW,,,505.00`

	txns := ParseCSV(input, 0)
	require.Len(t, txns, 2)
	assert.InDelta(t, -10.99, txns[0].Amount, 0.001)
	assert.InDelta(t, 5.00, txns[1].Amount, 0.001)
}

func TestParseCSVMissingColumns(t *testing.T) {
	assert.Empty(t, ParseCSV("Date,Notes\n03/08/2025,hello", 2025))
}
