package models

import "time"

// RawTransaction represents a single ledger entry as read from a statement.
// Amount is signed: negative is money leaving the account.
type RawTransaction struct {
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency,omitempty"`     // set for foreign-currency purchases
	ExchangeRate float64   `json:"exchangeRate,omitempty"` // base currency per unit of Currency
}

// IsDebit reports whether the transaction is spend.
func (t RawTransaction) IsDebit() bool {
	return t.Amount < 0
}

// BankType represents statement layouts the parser knows about.
type BankType string

const (
	BankMetro    BankType = "metro"
	BankHSBC     BankType = "hsbc"
	BankBarclays BankType = "barclays"
)

// InputFormat is the shape of the text handed to the engine.
type InputFormat string

const (
	FormatCSV  InputFormat = "csv"
	FormatText InputFormat = "text"
)
