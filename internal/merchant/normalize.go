package merchant

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Match confidence for canonical and cleaned-up names.
const (
	KnownConfidence    = 95
	FallbackConfidence = 60
)

// boilerplate is stripped in order before matching. Each pattern is replaced
// by a space so neighbouring words never fuse.
var boilerplate = []*regexp.Regexp{
	// payment rails
	regexp.MustCompile(`(?i)\b(?:card\s+payment\s+to|direct\s+debit\s+payment\s+to|direct\s+debit\s+to|debit\s+card\s+payment\s+to|contactless\s+payment\s+to|bill\s+payment\s+to|standing\s+order\s+to|payment\s+to|purchase\s+at)\b`),
	regexp.MustCompile(`(?i)\(?\s*\bvia\s+(?:apple|google|samsung)\s+pay\b\s*\)?`),
	// PayPal wrappers
	regexp.MustCompile(`(?i)\bpaypal\s*\*|\bpp\s*\*|\bpaypal\s+payment\s+to\b`),
	// dates and transaction references
	regexp.MustCompile(`(?i)\bon\s+\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:ref(?:erence)?|mandate(?:\s+(?:no|number|ref))?|card)\b\.?\s*[:#]?\s*[a-z0-9/-]*\d[a-z0-9/-]*`),
	regexp.MustCompile(`(?i)\b(?:direct\s+debit|reference|ref|mandate|pos|online|contactless|d/d|dd|so|bp|fpo|visa)\b`),
	// domains
	regexp.MustCompile(`(?i)\.(?:com|co\.uk|net|org|io|tv)\b`),
	regexp.MustCompile(`(?i)/bill\b|\bwww\.`),
	// country codes
	regexp.MustCompile(`(?i)\b(?:gb|gbr|uk|irl|ie|lu|lux|nl|us|usa)\b`),
	// corporate suffixes
	regexp.MustCompile(`(?i)\b(?:ltd|limited|plc|inc|llc|llp|gmbh|sarl|bv|corp)\b\.?`),
	// digit runs
	regexp.MustCompile(`\d{4,}`),
	regexp.MustCompile(`[*#_|<>]+`),
}

// Result is the outcome of normalizing one description.
type Result struct {
	Name       string
	Category   string
	Confidence int
	Known      bool
	Aggregator bool
	Annual     bool
}

// Clean strips payment-rail boilerplate from a raw description and title
// cases what remains.
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	for _, re := range boilerplate {
		s = re.ReplaceAllString(s, " ")
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " -.,:;/()")
	if s == "" {
		return ""
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Normalize maps a raw description to a canonical service when one matches,
// otherwise to its cleaned-up name in the Other category.
func Normalize(raw string) Result {
	cleaned := Clean(raw)
	if svc, ok := Match(cleaned); ok {
		return Result{
			Name:       svc.Name,
			Category:   svc.Category,
			Confidence: KnownConfidence,
			Known:      true,
			Aggregator: svc.Aggregator,
			Annual:     svc.Annual,
		}
	}
	return Result{
		Name:       cleaned,
		Category:   models.CategoryOther,
		Confidence: FallbackConfidence,
	}
}
