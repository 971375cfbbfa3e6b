package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Amount extraction tuning.
const (
	defaultTailWindow  = 60
	fallbackTailWindow = 100

	// minPlausibleSpend is the value under which a bare integer is treated as
	// noise once a larger candidate exists.
	minPlausibleSpend = 5.00
)

// moneyPattern groups: 1 "(", 2 minus, 3 "£", 4 minus, 5 integer part,
// 6 fraction, 7 ")".
var moneyPattern = regexp.MustCompile(`(\()?([-−])?(£\s?)?([-−])?(\d{1,3}(?:,\d{3})+|\d+)(\.\d{2})?(\))?`)

type moneyToken struct {
	value  float64
	priced bool // has a two-decimal fraction
	marked bool // has a currency symbol
}

// ExtractAmount returns the transaction amount on a statement line as a
// non-negative magnitude, or 0 when the line holds no money.
func ExtractAmount(line string) float64 {
	return extractAmount(line, defaultTailWindow)
}

func extractAmount(line string, window int) float64 {
	tokens := moneyTokens(tail(line, window))

	var kept []moneyToken
	hasPriced := false
	for _, tok := range tokens {
		if !tok.priced && !tok.marked {
			continue
		}
		if tok.priced {
			hasPriced = true
		}
		kept = append(kept, tok)
	}

	if hasPriced {
		kept = filterTokens(kept, func(tok moneyToken) bool { return tok.priced })
	}
	plausible := false
	for _, tok := range kept {
		if tok.value >= minPlausibleSpend {
			plausible = true
			break
		}
	}
	if plausible {
		kept = filterTokens(kept, func(tok moneyToken) bool {
			return tok.priced || tok.value >= minPlausibleSpend
		})
	}

	switch len(kept) {
	case 0:
		return 0
	case 1:
		return kept[0].value
	case 2:
		return pickOfTwo(kept[0].value, kept[1].value)
	}

	// "out in balance": the running balance is last and the largest.
	last := kept[len(kept)-1].value
	for _, tok := range kept[:len(kept)-1] {
		if tok.value > last {
			return pickOfTwo(kept[len(kept)-2].value, last)
		}
	}
	return kept[len(kept)-2].value
}

// pickOfTwo chooses between two trailing candidates. A much larger second
// value is a balance; otherwise the smaller one is the charge.
func pickOfTwo(first, second float64) float64 {
	if second > first*1.5 {
		return first
	}
	if second < first {
		return second
	}
	return first
}

// moneyTokens finds currency-shaped numbers in s. Numbers glued to letters
// or longer digit runs (rates, references) are ignored.
func moneyTokens(s string) []moneyToken {
	var tokens []moneyToken
	for _, m := range moneyPattern.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[0], m[1]
		if start > 0 {
			prev := s[start-1]
			if isWordByte(prev) || prev == '.' {
				continue
			}
		}
		if end < len(s) {
			next := s[end]
			if (next >= '0' && next <= '9') || next == '.' && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9' {
				continue
			}
		}
		digits := strings.ReplaceAll(s[m[10]:m[11]], ",", "")
		if m[12] >= 0 {
			digits += s[m[12]:m[13]]
		}
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			continue
		}
		tokens = append(tokens, moneyToken{
			value:  v,
			priced: m[12] >= 0,
			marked: m[6] >= 0,
		})
	}
	return tokens
}

// parseAmount converts a cell such as "-£1,234.56", "(5.00)" or "−9.99" to a
// signed float64. An empty cell is zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space

	if s == "" || s == "-" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

// tail returns the last window runes of s, widened to the previous space so
// no token is cut in half.
func tail(s string, window int) string {
	runes := []rune(s)
	if window <= 0 || len(runes) <= window {
		return s
	}
	start := len(runes) - window
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	return string(runes[start:])
}

func filterTokens(tokens []moneyToken, keep func(moneyToken) bool) []moneyToken {
	out := tokens[:0]
	for _, tok := range tokens {
		if keep(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func isWordByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
