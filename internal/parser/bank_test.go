package parser

import (
	"testing"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

func TestDetectBank(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.BankType
	}{
		{"detects Metro Bank", "Metro Bank\nAccount Statement\n15/01/2024", models.BankMetro},
		{"detects HSBC", "HSBC UK Bank plc\nYour Statement\n15 Jan 2024", models.BankHSBC},
		{"detects Barclays", "Barclays Bank UK PLC\nStatement\n15/01/2024", models.BankBarclays},
		{"unknown bank", "Some Unknown Bank\nStatement", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBank(tt.text); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGreedyDenylistIncludesBankFurniture(t *testing.T) {
	s := Greedy(models.BankBarclays)
	if !s.isFurniture("Barclays Bank UK PLC is authorised") {
		t.Error("expected Barclays footer to be furniture")
	}
	if s.isFurniture("03/08/2025 NETFLIX.COM 9.99") {
		t.Error("transaction line treated as furniture")
	}
	if Strict.isFurniture("Page 1 of 2") {
		t.Error("strict strategy has no denylist")
	}
}
