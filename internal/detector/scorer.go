package detector

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/subscription-detector/internal/merchant"
	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Acceptance tuning. These values are empirical and kept exactly.
const (
	knownTolerance   = 0.12
	unknownTolerance = 0.06

	frequencyBonus   = 5
	directDebitBonus = 5
	maxConfidence    = 100

	noiseFloor      = 2.00
	highValueFloor  = 50.00
	minAnnualAmount = 30.00
)

var (
	mandatePattern     = regexp.MustCompile(`(?i)\bmandate\b`)
	creditGuardPattern = regexp.MustCompile(`(?i)\brefund|\brevers(?:al|ed)\b|\bcredit\b|\binterest\b`)
	strongPattern      = regexp.MustCompile(`(?i)subscription|\bsubscr\b|\bmembership\b|direct\s+debit|\bannual\b|\brenewal\b|\brecurring\b`)
	annualPattern      = regexp.MustCompile(`(?i)\bannual(?:ly)?\b|\byearly\b|\bmembership\b|\b12\s*months?\b|\brenewal\b|\bper\s+year\b`)
	directDebitPattern = regexp.MustCompile(`(?i)direct\s+debit|\bd/?d\b|\bmandate\b`)
)

// group is a set of debits sharing a merchant key.
type group struct {
	key   string
	match merchant.Result
	txns  []models.RawTransaction
}

// Score groups debit transactions by merchant and returns the groups that
// look like subscriptions.
func Score(txns []models.RawTransaction, log zerolog.Logger) []models.ParsedSubscription {
	var subs []models.ParsedSubscription
	for _, g := range groupTransactions(txns) {
		sub, reason := evaluate(g)
		if reason != "" {
			log.Debug().
				Str("group", g.key).
				Int("size", len(g.txns)).
				Str("reason", reason).
				Msg("group rejected")
			continue
		}
		subs = append(subs, sub)
	}
	return subs
}

// groupTransactions keys debits by normalized merchant. Aggregator billers
// are split further by amount so each priced service stands alone.
func groupTransactions(txns []models.RawTransaction) []*group {
	var order []*group
	byKey := make(map[string]*group)
	for _, txn := range txns {
		if !txn.IsDebit() {
			continue
		}
		match := merchant.Normalize(txn.Description)
		if match.Name == "" {
			continue
		}
		key := strings.ToLower(match.Name)
		if match.Aggregator {
			key += "|" + pence(math.Abs(txn.Amount))
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key, match: match}
			byKey[key] = g
			order = append(order, g)
		}
		g.txns = append(g.txns, txn)
	}
	return order
}

// evaluate builds the subscription for g, or returns the reason it was
// rejected.
func evaluate(g *group) (models.ParsedSubscription, string) {
	n := len(g.txns)
	texts := make([]string, n)
	amounts := make([]float64, n)
	dates := make([]time.Time, n)
	latest, earliest := 0, 0
	for i, txn := range g.txns {
		texts[i] = txn.Description
		amounts[i] = math.Abs(txn.Amount)
		dates[i] = txn.Date
		if !txn.Date.Before(g.txns[latest].Date) {
			latest = i
		}
		if txn.Date.Before(g.txns[earliest].Date) {
			earliest = i
		}
	}
	text := strings.Join(texts, " ")

	known := g.match.Known
	mandate := mandatePattern.MatchString(text)
	p2p := mandate && !known

	if p2p && n < 2 {
		return models.ParsedSubscription{}, "peer-to-peer"
	}
	if creditGuardPattern.MatchString(text) {
		return models.ParsedSubscription{}, "credit"
	}

	mid := median(amounts)
	tolerance := unknownTolerance
	if known || mandate {
		tolerance = knownTolerance
	}
	recurring := n >= 2 && withinBand(amounts, mid, tolerance)

	amount := amounts[latest]
	if recurring {
		amount = mid
	}
	cost := roundPence(amount)
	if cost <= 0 {
		return models.ParsedSubscription{}, "zero"
	}

	single := n == 1
	if single && known && cost < noiseFloor {
		return models.ParsedSubscription{}, "noise"
	}

	strong := strongPattern.MatchString(text) && !p2p
	highValueAnnual := single && cost >= highValueFloor && annualPattern.MatchString(text)
	annualBrand := single && known && g.match.Annual && cost >= minAnnualAmount
	if !recurring && !known && !strong && !highValueAnnual && !annualBrand {
		return models.ParsedSubscription{}, "unstable"
	}

	freq := models.FrequencyUnknown
	if n >= 2 {
		freq = InferFrequency(dates)
	}
	if freq == models.FrequencyUnknown && !recurring {
		freq = priorFrequency(text, g.match, cost)
	}

	confidence := g.match.Confidence
	if freq != models.FrequencyUnknown {
		confidence += frequencyBonus
	}
	if directDebitPattern.MatchString(text) {
		confidence += directDebitBonus
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	last := g.txns[latest].Date
	sub := models.ParsedSubscription{
		Name:        g.match.Name,
		ServiceName: g.match.Name,
		Merchant:    g.txns[latest].Description,
		Category:    g.match.Category,
		Cost:        cost,
		Frequency:   freq,
		BillingDate: last.Day(),
		Confidence:  confidence,
		LastUsed:    last,
		SignUpDate:  g.txns[earliest].Date,
		NextBilling: NextBillingDate(last, freq),
		Occurrences: n,
	}
	sub.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(Key(sub))).String()
	return sub, ""
}

// priorFrequency guesses the cadence of a charge that cannot be timed from
// its own history.
func priorFrequency(text string, match merchant.Result, cost float64) models.Frequency {
	switch {
	case annualPattern.MatchString(text):
		return models.FrequencyAnnual
	case match.Known && match.Annual && cost >= minAnnualAmount:
		return models.FrequencyAnnual
	case match.Known:
		return models.FrequencyMonthly
	}
	return models.FrequencyUnknown
}

func withinBand(amounts []float64, mid, tolerance float64) bool {
	for _, a := range amounts {
		if math.Abs(a-mid) > tolerance*mid {
			return false
		}
	}
	return true
}
