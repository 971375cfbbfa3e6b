// Package detector finds recurring subscription charges in bank statement
// text.
package detector

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/subscription-detector/internal/models"
	"github.com/insightdelivered/subscription-detector/internal/parser"
)

// ErrInvalidInput is returned for input that is not text.
var ErrInvalidInput = errors.New("invalid input")

// minSubscriptions is the result size under which the greedy fallback runs.
const minSubscriptions = 3

// Detector runs the extraction and scoring pipeline. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	log  zerolog.Logger
	year int
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for pipeline debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Detector) {
		d.log = log
	}
}

// WithYear sets the year given to dates printed without one.
func WithYear(year int) Option {
	return func(d *Detector) {
		d.year = year
	}
}

// New returns a Detector. Without options it logs nothing and infers the
// statement year from the text.
func New(opts ...Option) *Detector {
	d := &Detector{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the subscriptions found in text using a default Detector.
func Detect(text string) ([]models.ParsedSubscription, error) {
	return New().Detect(text)
}

// Detect returns the subscriptions found in text. An empty result is not an
// error.
func (d *Detector) Detect(text string) ([]models.ParsedSubscription, error) {
	report, err := d.Analyze(text)
	if err != nil {
		return nil, err
	}
	return report.Subscriptions, nil
}

// Analyze runs the full pipeline and reports how the result was reached.
func (d *Detector) Analyze(text string) (*models.Report, error) {
	if err := validate(text); err != nil {
		return nil, err
	}

	report := &models.Report{Bank: parser.DetectBank(text)}

	txns, format := parser.Parse(text, d.year)
	report.Format = format
	report.TransactionCount = len(txns)

	subs := Score(txns, d.log)
	d.log.Debug().
		Str("format", string(format)).
		Str("bank", string(report.Bank)).
		Int("transactions", len(txns)).
		Int("subscriptions", len(subs)).
		Msg("primary pass")

	// CSV rows are already one transaction each and carry their own signs,
	// so only free text gets the greedy second pass.
	if len(subs) < minSubscriptions && format == models.FormatText {
		fallback := parser.ParseText(text, parser.Greedy(report.Bank), d.year)
		more := Score(fallback, d.log)
		subs = Merge(subs, more)
		report.UsedFallback = true

		d.log.Debug().
			Int("transactions", len(fallback)).
			Int("subscriptions", len(more)).
			Int("merged", len(subs)).
			Msg("fallback pass")
	}

	if subs == nil {
		subs = []models.ParsedSubscription{}
	}
	report.Subscriptions = subs
	report.MonthlyTotal = MonthlyTotal(subs)
	return report, nil
}

// Merge combines subscription lists by Key. A later entry replaces an
// earlier one with the same key but keeps its position.
func Merge(lists ...[]models.ParsedSubscription) []models.ParsedSubscription {
	var out []models.ParsedSubscription
	index := make(map[string]int)
	for _, list := range lists {
		for _, sub := range list {
			k := Key(sub)
			if i, ok := index[k]; ok {
				out[i] = sub
				continue
			}
			index[k] = len(out)
			out = append(out, sub)
		}
	}
	return out
}

// Key identifies a subscription by name, cost to the penny and frequency.
func Key(sub models.ParsedSubscription) string {
	return strings.ToLower(sub.Name) + "|" + pence(sub.Cost) + "|" + string(sub.Frequency)
}

func validate(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	if strings.ContainsRune(text, 0) {
		return fmt.Errorf("%w: text contains NUL bytes", ErrInvalidInput)
	}
	return nil
}
