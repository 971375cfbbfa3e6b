package parser

import (
	"strings"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// DetectBank identifies the issuing bank from statement text. It returns an
// empty BankType when no known bank is named.
func DetectBank(text string) models.BankType {
	switch {
	case containsAny(text, []string{"Metro Bank", "metrobankonline"}):
		return models.BankMetro
	case containsAny(text, []string{"HSBC", "hsbc.co.uk"}):
		return models.BankHSBC
	case containsAny(text, []string{"Barclays", "barclays.co.uk"}):
		return models.BankBarclays
	}
	return ""
}

// statementFurniture is regulatory and layout text that never describes a
// transaction but often carries numbers.
var statementFurniture = []string{
	"financial conduct authority", "prudential regulation", "authorised by",
	"compensation scheme", "your deposit is eligible", "registered in england",
	"registered office", "please check", "if you find", "anything wrong",
	"at a glance", "issued on", "swiftbic", "iban", "sort code",
	"account number", "statement period", "page ", "continued",
	"total paid in", "total paid out", "total payments", "total receipts",
	"exchange rate", "non-sterling transaction fee", "final gbp amount",
}

var bankFurniture = map[models.BankType][]string{
	models.BankMetro:    {"metro bank plc", "metrobankonline"},
	models.BankHSBC:     {"hsbc uk bank plc", "hsbc.co.uk", "your statement"},
	models.BankBarclays: {"barclays bank uk plc", "barclays.co.uk", "your business current account"},
}

// furniture returns the denylist for statements from bank.
func furniture(bank models.BankType) []string {
	phrases := append([]string(nil), statementFurniture...)
	return append(phrases, bankFurniture[bank]...)
}

func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
