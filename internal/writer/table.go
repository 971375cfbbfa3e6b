package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// TableWriter prints an aligned plain-text table for terminals.
type TableWriter struct{}

// Write implements Writer.
func (TableWriter) Write(out io.Writer, report *models.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tCATEGORY\tCOST\tFREQUENCY\tNEXT BILLING\tCONFIDENCE")
	for _, sub := range report.Subscriptions {
		next := "-"
		if sub.NextBilling != nil {
			next = sub.NextBilling.Format(models.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t£%s\t%s\t%s\t%d%%\n",
			sub.Name, sub.Category, formatAmount(sub.Cost), sub.Frequency, next, sub.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%d subscriptions, about £%s a month\n",
		len(report.Subscriptions), formatAmount(report.MonthlyTotal))
	return err
}

// JSONWriter writes the report as a JSON document.
type JSONWriter struct {
	Indent bool
}

// Write implements Writer.
func (w *JSONWriter) Write(out io.Writer, report *models.Report) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
