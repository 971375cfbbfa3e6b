package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"CARD PAYMENT TO TESCO STORES 3041", "Tesco Stores"},
		{"DIRECT DEBIT PAYMENT TO ACME GYM LTD REF 123456", "Acme Gym"},
		{"CORNER CAFE (VIA APPLE PAY)", "Corner Cafe"},
		{"PAYPAL *SPOTIFY", "Spotify"},
		{"APPLE.COM/BILL", "Apple"},
		{"BLOOM FLOWERS ON 03-08-2025 GB", "Bloom Flowers"},
		{"", ""},
		{"REF 998877", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		category   string
		confidence int
		aggregator bool
	}{
		{"known service", "NETFLIX.COM LONDON", "Netflix", models.CategoryVideo, 95, false},
		{"specific before broad", "CARD PAYMENT TO AMAZON PRIME VIDEO", "Amazon Prime Video", models.CategoryVideo, 95, false},
		{"broad amazon prime", "AMAZON PRIME*2K4LM", "Amazon Prime", models.CategoryShopping, 95, false},
		{"paypal wrapper", "PAYPAL *SPOTIFY P3A1B2", "Spotify", models.CategoryMusic, 95, false},
		{"apple aggregator", "APPLE.COM/BILL", "Apple", models.CategoryEntertainment, 95, true},
		{"icloud beats apple", "APPLE.COM/BILL ICLOUD", "iCloud+", models.CategoryCloudStorage, 95, false},
		{"telecom aggregator", "DIRECT DEBIT PAYMENT TO EE LIMITED", "EE", models.CategoryTelecom, 95, true},
		{"unknown merchant", "DIRECT DEBIT PAYMENT TO ACME GYM LTD REF 123456", "Acme Gym", models.CategoryOther, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.aggregator, got.Aggregator)
			assert.Equal(t, tt.confidence == KnownConfidence, got.Known)
		})
	}
}

func TestMatchOrder(t *testing.T) {
	svc, ok := Match("Prime Video Amazon Prime")
	assert.True(t, ok)
	assert.Equal(t, "Amazon Prime Video", svc.Name)

	_, ok = Match("Corner Cafe")
	assert.False(t, ok)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("03/08/2025 SPOTIFY REFUND 10.99"))
	assert.False(t, IsKnown("03/08/2025 INTEREST PAID 0.42"))
}
