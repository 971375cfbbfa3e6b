package merchant

import (
	"regexp"

	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Service is a canonical subscription service.
type Service struct {
	Name     string
	Category string
	// Aggregator billers front many unrelated services under one descriptor.
	Aggregator bool
	// Annual services commonly bill once a year.
	Annual bool
}

type serviceRule struct {
	pattern *regexp.Regexp
	service Service
}

func rule(expr, name, category string) serviceRule {
	return serviceRule{
		pattern: regexp.MustCompile(`(?i)` + expr),
		service: Service{Name: name, Category: category},
	}
}

func (r serviceRule) aggregator() serviceRule {
	r.service.Aggregator = true
	return r
}

func (r serviceRule) annual() serviceRule {
	r.service.Annual = true
	return r
}

// knownServices is evaluated top to bottom and the first hit wins, so
// specific patterns sit above the broad ones that would also match.
var knownServices = []serviceRule{
	// Amazon
	rule(`prime\s*video`, "Amazon Prime Video", models.CategoryVideo),
	rule(`amazon\s*prime|amzn\s*prime|prime\s*member`, "Amazon Prime", models.CategoryShopping).annual(),
	rule(`audible`, "Audible", models.CategoryEntertainment),
	rule(`kindle\s*unlimited`, "Kindle Unlimited", models.CategoryEntertainment),
	rule(`amazon\s*music`, "Amazon Music", models.CategoryMusic),
	rule(`amazon\s*digital|amzn\s*digital|amazon\s*svcs|amzn\s*digi`, "Amazon Digital", models.CategoryEntertainment).aggregator(),

	// Video
	rule(`netflix`, "Netflix", models.CategoryVideo),
	rule(`disney\s*(?:\+|plus)`, "Disney+", models.CategoryVideo),
	rule(`\bnow\s*tv\b|\bnowtv\b`, "NOW", models.CategoryVideo),
	rule(`youtube`, "YouTube Premium", models.CategoryVideo),
	rule(`paramount\s*(?:\+|plus)`, "Paramount+", models.CategoryVideo),
	rule(`britbox`, "BritBox", models.CategoryVideo),
	rule(`crunchyroll`, "Crunchyroll", models.CategoryVideo),
	rule(`\bdazn\b`, "DAZN", models.CategoryVideo),
	rule(`tv\s*licen[cs]e`, "TV Licence", models.CategoryEntertainment).annual(),

	// Apple
	rule(`apple\s*tv`, "Apple TV+", models.CategoryVideo),
	rule(`apple\s*music`, "Apple Music", models.CategoryMusic),
	rule(`icloud`, "iCloud+", models.CategoryCloudStorage),
	rule(`\bapple\b|itunes`, "Apple", models.CategoryEntertainment).aggregator(),

	// Music
	rule(`spotify`, "Spotify", models.CategoryMusic),
	rule(`\btidal\b`, "Tidal", models.CategoryMusic),
	rule(`deezer`, "Deezer", models.CategoryMusic),

	// Google
	rule(`google\s*one|google\s*storage`, "Google One", models.CategoryCloudStorage).aggregator(),
	rule(`google\s*play|\bgoogle\b`, "Google Play", models.CategoryEntertainment).aggregator(),

	// Software and productivity
	rule(`dropbox`, "Dropbox", models.CategoryCloudStorage).annual(),
	rule(`xbox|game\s*pass`, "Xbox Game Pass", models.CategoryGaming).annual(),
	rule(`microsoft|\bmsft\b|office\s*365`, "Microsoft 365", models.CategoryProductivity).annual(),
	rule(`adobe`, "Adobe Creative Cloud", models.CategorySoftware),
	rule(`openai|chatgpt`, "ChatGPT Plus", models.CategorySoftware),
	rule(`github`, "GitHub", models.CategorySoftware),
	rule(`\bcanva\b`, "Canva", models.CategorySoftware).annual(),
	rule(`notion`, "Notion", models.CategoryProductivity),
	rule(`linkedin`, "LinkedIn Premium", models.CategoryProductivity),
	rule(`duolingo`, "Duolingo", models.CategoryProductivity).annual(),
	rule(`1password`, "1Password", models.CategorySoftware).annual(),
	rule(`nordvpn|nord\s*vpn`, "NordVPN", models.CategorySoftware).annual(),
	rule(`expressvpn|express\s*vpn`, "ExpressVPN", models.CategorySoftware).annual(),

	// Gaming
	rule(`playstation|\bpsn\b|sony\s*interactive`, "PlayStation Plus", models.CategoryGaming).annual(),
	rule(`nintendo`, "Nintendo Switch Online", models.CategoryGaming).annual(),

	// Fitness
	rule(`pure\s*gym`, "PureGym", models.CategoryFitness),
	rule(`gym\s*group`, "The Gym Group", models.CategoryFitness),
	rule(`david\s*lloyd`, "David Lloyd", models.CategoryFitness),
	rule(`strava`, "Strava", models.CategoryFitness).annual(),
	rule(`peloton`, "Peloton", models.CategoryFitness),

	// Telecoms bill handsets, airtime and add-ons under one descriptor.
	rule(`vodafone`, "Vodafone", models.CategoryTelecom).aggregator(),
	rule(`\bee\b|everything\s*everywhere`, "EE", models.CategoryTelecom).aggregator(),
	rule(`\bo2\b|telefonica`, "O2", models.CategoryTelecom).aggregator(),
	rule(`three\s*(?:uk|mobile)|hutchison`, "Three", models.CategoryTelecom).aggregator(),
	rule(`giffgaff`, "giffgaff", models.CategoryTelecom).aggregator(),
	rule(`virgin\s*media`, "Virgin Media", models.CategoryTelecom).aggregator(),
	rule(`\bsky\b`, "Sky", models.CategoryTelecom).aggregator(),
	rule(`\bbt\b|bt\s*group`, "BT", models.CategoryTelecom).aggregator(),

	// News
	rule(`times\s*newspapers|the\s*times`, "The Times", models.CategoryNews),
	rule(`financial\s*times`, "Financial Times", models.CategoryNews),
	rule(`guardian`, "The Guardian", models.CategoryNews),
	rule(`economist`, "The Economist", models.CategoryNews).annual(),

	// Memberships
	rule(`costco`, "Costco Membership", models.CategoryShopping).annual(),
	rule(`patreon`, "Patreon", models.CategoryEntertainment),
	rule(`paypal`, "PayPal", models.CategoryOther).aggregator(),
}

// Match returns the first known service whose pattern matches text.
func Match(text string) (Service, bool) {
	for _, r := range knownServices {
		if r.pattern.MatchString(text) {
			return r.service, true
		}
	}
	return Service{}, false
}

// IsKnown reports whether a raw description names a known service once its
// boilerplate is stripped.
func IsKnown(raw string) bool {
	_, ok := Match(Clean(raw))
	return ok
}
