package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

var csvHeaderKeywords = []string{"date", "description", "amount", "merchant", "details"}

// IsCSV reports whether text looks like a CSV export: its first line is a
// comma-separated header naming transaction columns.
func IsCSV(text string) bool {
	first := firstLine(text)
	return strings.Contains(first, ",") && containsAny(first, csvHeaderKeywords)
}

type csvColumns struct {
	date, description, amount, moneyIn, moneyOut int
}

func locateColumns(header []string) csvColumns {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}
	return csvColumns{
		date:        findColumn(names, "date"),
		description: findColumn(names, "description", "merchant", "details", "narrative", "payee", "memo", "reference"),
		amount:      findColumn(names, "amount", "value"),
		moneyIn:     findColumn(names, "money in", "paid in", "credit", "in"),
		moneyOut:    findColumn(names, "money out", "paid out", "debit", "out"),
	}
}

// findColumn returns the first header matching the earliest key. Short keys
// must match the whole header.
func findColumn(names []string, keys ...string) int {
	for _, key := range keys {
		for i, name := range names {
			if len(key) <= 3 && name == key || len(key) > 3 && strings.Contains(name, key) {
				return i
			}
		}
	}
	return -1
}

// ParseCSV reads a CSV export with a header row. Rows without a valid date,
// description and finite amount are skipped.
func ParseCSV(text string, fallbackYear int) []models.RawTransaction {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil
	}
	cols := locateColumns(header)
	signed := cols.amount >= 0
	if cols.date < 0 || cols.description < 0 || (!signed && (cols.moneyIn < 0 || cols.moneyOut < 0)) {
		return nil
	}

	var txns []models.RawTransaction
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		date, ok := ParseDate(cell(record, cols.date), fallbackYear)
		if !ok {
			continue
		}
		desc := strings.Join(strings.Fields(cell(record, cols.description)), " ")
		if desc == "" {
			continue
		}

		var amount float64
		if signed {
			raw := cell(record, cols.amount)
			if raw == "" {
				continue
			}
			if amount, err = parseAmount(raw); err != nil {
				continue
			}
		} else {
			in, out := cell(record, cols.moneyIn), cell(record, cols.moneyOut)
			if in == "" && out == "" {
				continue
			}
			inValue, inErr := parseAmount(in)
			outValue, outErr := parseAmount(out)
			if inErr != nil || outErr != nil {
				continue
			}
			amount = math.Abs(inValue) - math.Abs(outValue)
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}

		txns = append(txns, models.RawTransaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
		})
	}

	return txns
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
