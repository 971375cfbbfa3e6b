// Package writer renders detection reports for people and spreadsheets.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Writer renders a report to out.
type Writer interface {
	Write(out io.Writer, report *models.Report) error
}

// New returns the Writer for a format name: json, csv or table.
func New(format string) (Writer, error) {
	switch format {
	case "json", "":
		return &JSONWriter{Indent: true}, nil
	case "csv":
		return &CSVWriter{IncludeHeader: true}, nil
	case "table":
		return &TableWriter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// WriteToFile renders report with w into a new file at path.
func WriteToFile(w Writer, path string, report *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CSVWriter writes one row per subscription.
type CSVWriter struct {
	// IncludeHeader adds "# key,value" rows describing the report before
	// the column header.
	IncludeHeader bool
}

// CSVHeader is the column header row.
var CSVHeader = []string{
	"Name", "Category", "Cost", "Frequency", "BillingDay",
	"Confidence", "SignUpDate", "LastUsed", "NextBilling",
}

// Write writes the subscriptions in report as CSV.
func (w *CSVWriter) Write(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		meta := [][]string{
			{"# Format", string(report.Format)},
			{"# Transactions", strconv.Itoa(report.TransactionCount)},
			{"# Fallback", strconv.FormatBool(report.UsedFallback)},
			{"# Monthly Total", formatAmount(report.MonthlyTotal)},
		}
		if report.Bank != "" {
			meta = append([][]string{{"# Bank", string(report.Bank)}}, meta...)
		}
		if err := writer.WriteAll(meta); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, sub := range report.Subscriptions {
		if err := writer.Write(csvRow(sub)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRow(sub models.ParsedSubscription) []string {
	next := ""
	if sub.NextBilling != nil {
		next = sub.NextBilling.Format(models.DateLayout)
	}
	return []string{
		sub.Name,
		sub.Category,
		formatAmount(sub.Cost),
		string(sub.Frequency),
		strconv.Itoa(sub.BillingDate),
		strconv.Itoa(sub.Confidence),
		sub.SignUpDate.Format(models.DateLayout),
		sub.LastUsed.Format(models.DateLayout),
		next,
	}
}

func formatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
