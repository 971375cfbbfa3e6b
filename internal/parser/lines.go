package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/subscription-detector/internal/merchant"
	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Strategy controls how physical statement rows are merged into logical
// transaction lines.
type Strategy struct {
	Name string
	// TailWindow is how many trailing runes the amount extractor scans.
	TailWindow int
	// MaxLines caps how many physical rows one transaction may span.
	MaxLines int
	// Greedy lets dateless rows inherit the previous date anchor and treats
	// any balance or total row as noise.
	Greedy bool
	// Denylist phrases mark statement furniture to drop outright.
	Denylist []string
}

// Strict is the primary strategy: one transaction per date anchor.
var Strict = Strategy{
	Name:       "strict",
	TailWindow: defaultTailWindow,
	MaxLines:   4,
}

// Greedy is the fallback strategy for noisy PDF dumps.
func Greedy(bank models.BankType) Strategy {
	return Strategy{
		Name:       "greedy",
		TailWindow: fallbackTailWindow,
		MaxLines:   6,
		Greedy:     true,
		Denylist:   furniture(bank),
	}
}

var (
	balancePattern      = regexp.MustCompile(`(?i)balance\s+(?:carried|brought)\s+(?:forward|fwd)|\b(?:opening|closing|start|end|previous|new)\s+balance\b|\bb/f\b|\bc/f\b|\bbalance\s+b/?f\b`)
	looseBalancePattern = regexp.MustCompile(`(?i)\bbalance\b|\b(?:sub-?)?totals?\b`)
	creditPattern       = regexp.MustCompile(`(?i)\brefund|\binterest\b|\bpaid\s+in\b|\bsalary\b|\bwages\b|\bdirect\s+credit\b|\bcredit\s+from\b|\btransfer\s+from\b|\bbgc\b|\bcashback\b|\breversal\b|\bdividend\b|\bpayment\s+received\b`)
	terminalMoney       = regexp.MustCompile(`(?:^|[\s£(−-])(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\)?$`)
	lineSeparators      = strings.NewReplacer("\u00A0", " ", "\t", " ", "→", " ", "\u200B", "", "\uFEFF", "")
)

// Reconstruct merges physical rows into one logical line per transaction.
// A row that starts with a date opens a transaction; rows are appended until
// one ends in an amount.
func Reconstruct(lines []string, s Strategy, fallbackYear int) []string {
	var out []string
	var current []string
	anchor := ""

	flush := func() {
		if len(current) > 0 {
			logical := strings.Join(current, " ")
			if !s.excluded(logical) {
				out = append(out, logical)
			}
		}
		current = nil
	}

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" || s.isFurniture(line) {
			continue
		}

		date, dated := leadingDate(line, fallbackYear)

		if s.excluded(line) {
			if dated {
				flush()
			}
			continue
		}

		switch {
		case dated:
			flush()
			current = []string{line}
			anchor = date
		case len(current) > 0:
			current = append(current, line)
		case s.Greedy && anchor != "":
			current = []string{anchor + " " + line}
		default:
			continue
		}

		if terminalMoney.MatchString(line) {
			flush()
		} else if s.MaxLines > 0 && len(current) >= s.MaxLines {
			current = nil
		}
	}
	flush()

	return out
}

// excluded reports balance and credit rows, unless they name a known
// subscription service.
func (s Strategy) excluded(line string) bool {
	hit := balancePattern.MatchString(line) || creditPattern.MatchString(line) ||
		(s.Greedy && looseBalancePattern.MatchString(line))
	return hit && !merchant.IsKnown(line)
}

func (s Strategy) isFurniture(line string) bool {
	return len(s.Denylist) > 0 && containsAny(line, s.Denylist)
}

func normalizeLine(line string) string {
	return strings.Join(strings.Fields(lineSeparators.Replace(line)), " ")
}
