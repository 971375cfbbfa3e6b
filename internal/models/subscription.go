package models

import (
	"encoding/json"
	"time"
)

// Frequency is the inferred billing cadence of a subscription.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
	FrequencyUnknown Frequency = "unknown"
)

// Subscription categories.
const (
	CategoryEntertainment = "Entertainment"
	CategorySoftware      = "Software"
	CategoryFitness       = "Fitness"
	CategoryTelecom       = "Telecom"
	CategoryProductivity  = "Productivity"
	CategoryVideo         = "Video"
	CategoryMusic         = "Music"
	CategoryCloudStorage  = "Cloud Storage"
	CategoryGaming        = "Gaming"
	CategoryNews          = "News"
	CategoryShopping      = "Shopping"
	CategoryOther         = "Other"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParsedSubscription is a detected recurring charge.
type ParsedSubscription struct {
	ID          string
	Name        string
	ServiceName string
	Merchant    string
	Category    string
	Cost        float64
	Frequency   Frequency
	BillingDate int // day of month of the most recent charge
	Confidence  int
	LastUsed    time.Time
	SignUpDate  time.Time
	NextBilling *time.Time // nil when Frequency is unknown
	Occurrences int
}

// MarshalJSON renders dates as plain calendar dates.
func (s ParsedSubscription) MarshalJSON() ([]byte, error) {
	out := struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		ServiceName string    `json:"serviceName"`
		Merchant    string    `json:"merchant"`
		Category    string    `json:"category"`
		Cost        float64   `json:"cost"`
		Frequency   Frequency `json:"frequency"`
		BillingDate int       `json:"billingDate"`
		Confidence  int       `json:"confidence"`
		LastUsed    string    `json:"lastUsed"`
		SignUpDate  string    `json:"signUpDate"`
		NextBilling string    `json:"nextBilling,omitempty"`
		Occurrences int       `json:"occurrences"`
	}{
		ID:          s.ID,
		Name:        s.Name,
		ServiceName: s.ServiceName,
		Merchant:    s.Merchant,
		Category:    s.Category,
		Cost:        s.Cost,
		Frequency:   s.Frequency,
		BillingDate: s.BillingDate,
		Confidence:  s.Confidence,
		LastUsed:    s.LastUsed.Format(DateLayout),
		SignUpDate:  s.SignUpDate.Format(DateLayout),
		Occurrences: s.Occurrences,
	}
	if s.NextBilling != nil {
		out.NextBilling = s.NextBilling.Format(DateLayout)
	}
	return json.Marshal(out)
}

// Report is the full outcome of one detection run.
type Report struct {
	Format           InputFormat          `json:"format"`
	Bank             BankType             `json:"bank,omitempty"`
	TransactionCount int                  `json:"transactionCount"`
	UsedFallback     bool                 `json:"usedFallback"`
	MonthlyTotal     float64              `json:"monthlyTotal"`
	Subscriptions    []ParsedSubscription `json:"subscriptions"`
}
