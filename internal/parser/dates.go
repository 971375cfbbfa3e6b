package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Dates outside this range are parse artifacts.
const (
	minYear = 1990
	maxYear = 2100
)

// Date notations found in UK statements and exports, in match priority order.
var (
	// 2025-08-03
	datePatternISO = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	// 03/08/2025, 03-08-25
	datePatternNumeric = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})\b`)
	// CARD PAYMENT TO X ON 03-08-2025
	datePatternOn = regexp.MustCompile(`(?i)\bON\s+(\d{1,2})-(\d{1,2})-(\d{4})\b`)
	// 27th Jul 2025, 27 Jul, 15-Jan-24
	datePatternMonthName = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[\s-]+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b\.?(?:[\s-]+(\d{4}|\d{2}))?(?:[^\d.,:]|$)`)
	// 2025/08/03
	datePatternYearFirst = regexp.MustCompile(`\b(\d{4})/(\d{1,2})/(\d{1,2})\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseDate finds a calendar date in s. Dates without a year take
// fallbackYear, or the current year when fallbackYear is zero.
func ParseDate(s string, fallbackYear int) (time.Time, bool) {
	if fallbackYear <= 0 {
		fallbackYear = time.Now().Year()
	}
	t, _, ok := findDate(s, fallbackYear)
	return t, ok
}

// findDate returns the first confident date in s and its byte span. Year-less
// forms only match when fallbackYear is positive.
func findDate(s string, fallbackYear int) (time.Time, []int, bool) {
	if m := datePatternISO.FindStringSubmatchIndex(s); m != nil {
		if t, ok := makeDate(atoi(s, m, 1), atoi(s, m, 2), atoi(s, m, 3)); ok {
			return t, m[:2], true
		}
	}

	// Day-first numeric dates are only trusted at the start of a fragment;
	// elsewhere they are usually references or sort codes.
	if m := datePatternNumeric.FindStringSubmatchIndex(s); m != nil && m[0] < 3 {
		if t, ok := makeDate(expandYear(atoi(s, m, 3)), atoi(s, m, 2), atoi(s, m, 1)); ok {
			return t, m[:2], true
		}
	}

	if m := datePatternOn.FindStringSubmatchIndex(s); m != nil {
		if t, ok := makeDate(atoi(s, m, 3), atoi(s, m, 2), atoi(s, m, 1)); ok {
			return t, m[:2], true
		}
	}

	if m := datePatternMonthName.FindStringSubmatchIndex(s); m != nil {
		year := fallbackYear
		if m[6] >= 0 {
			year = expandYear(atoi(s, m, 3))
		}
		month := monthNumbers[strings.ToLower(s[m[4]:m[4]+3])]
		if year > 0 {
			if t, ok := makeDate(year, month, atoi(s, m, 1)); ok {
				end := m[5]
				if m[6] >= 0 {
					end = m[7]
				}
				return t, []int{m[0], end}, true
			}
		}
	}

	if m := datePatternYearFirst.FindStringSubmatchIndex(s); m != nil {
		if t, ok := makeDate(atoi(s, m, 1), atoi(s, m, 2), atoi(s, m, 3)); ok {
			return t, m[:2], true
		}
	}

	return time.Time{}, nil, false
}

// leadingDate returns the date token a line begins with, if any.
func leadingDate(line string, fallbackYear int) (string, bool) {
	_, loc, ok := findDate(line, fallbackYear)
	if !ok || loc[0] >= 3 {
		return "", false
	}
	return strings.TrimSpace(line[:loc[1]]), true
}

// makeDate rejects impossible calendar dates instead of letting time.Date
// normalise them.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func expandYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

func atoi(s string, m []int, group int) int {
	if m[2*group] < 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[m[2*group]:m[2*group+1]])
	return n
}
