package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

var (
	// "20.00 USD RATE 0.7900/GBP": foreign amount, currency, GBP per unit.
	fxPattern = regexp.MustCompile(`(?i)\b((?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})\s*([a-z]{3})\s+rate\s+(\d+(?:\.\d+)?)\s*/\s*gbp\b`)
	// pricedPattern matches amounts to strip from descriptions.
	pricedPattern = regexp.MustCompile(`\(?[-−]?(?:£\s?)?[-−]?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\)?|£\s?\d+|\b(?:CR|DR)\b`)
)

// Parse turns statement text into transactions. CSV exports are read by
// column, anything else goes through line reconstruction with the strict
// strategy.
func Parse(text string, fallbackYear int) ([]models.RawTransaction, models.InputFormat) {
	if IsCSV(text) {
		return ParseCSV(text, fallbackYear), models.FormatCSV
	}
	return ParseText(text, Strict, fallbackYear), models.FormatText
}

// ParseText reads free statement text. Every transaction it returns is a
// debit, since free text is only mined for spend.
func ParseText(text string, s Strategy, fallbackYear int) []models.RawTransaction {
	if fallbackYear <= 0 {
		fallbackYear = StatementYear(text)
	}

	var txns []models.RawTransaction
	for _, line := range Reconstruct(strings.Split(text, "\n"), s, fallbackYear) {
		if txn, ok := buildTransaction(line, s, fallbackYear); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

func buildTransaction(line string, s Strategy, fallbackYear int) (models.RawTransaction, bool) {
	date, loc, ok := findDate(line, fallbackYear)
	if !ok {
		return models.RawTransaction{}, false
	}
	rest := line[:loc[0]] + " " + line[loc[1]:]
	txn := models.RawTransaction{Date: date}

	if m := fxPattern.FindStringSubmatchIndex(rest); m != nil {
		foreign, err := parseAmount(rest[m[2]:m[3]])
		rate, rateErr := strconv.ParseFloat(rest[m[6]:m[7]], 64)
		if err == nil && rateErr == nil && foreign > 0 && rate > 0 {
			converted, _ := decimal.NewFromFloat(foreign).Mul(decimal.NewFromFloat(rate)).Round(2).Float64()
			txn.Amount = -converted
			txn.Currency = strings.ToUpper(rest[m[4]:m[5]])
			txn.ExchangeRate = rate
		}
		rest = rest[:m[0]] + " " + rest[m[1]:]
	}

	if txn.Amount == 0 {
		amount := extractAmount(rest, s.TailWindow)
		if amount <= 0 {
			return models.RawTransaction{}, false
		}
		txn.Amount = -amount
	}

	txn.Description = describe(rest)
	if txn.Description == "" {
		return models.RawTransaction{}, false
	}
	return txn, true
}

// describe strips amounts from a line, leaving the bank's own wording.
func describe(s string) string {
	s = pricedPattern.ReplaceAllString(s, " ")
	return strings.Trim(strings.Join(strings.Fields(s), " "), " -:|,")
}

// StatementYear returns the year of the first fully dated token in text,
// or the current year. Whole lines are tried first so that month-name dates
// spanning several fields are seen; single fields catch numeric dates that
// do not lead their line.
func StatementYear(text string) int {
	for _, line := range strings.Split(text, "\n") {
		if t, _, ok := findDate(line, 0); ok {
			return t.Year()
		}
		for _, field := range strings.Fields(line) {
			if t, _, ok := findDate(field, 0); ok {
				return t.Year()
			}
		}
	}
	return time.Now().Year()
}
