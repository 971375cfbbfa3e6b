package enrich

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/subscription-detector/internal/detector"
	"github.com/insightdelivered/subscription-detector/internal/merchant"
	"github.com/insightdelivered/subscription-detector/internal/models"
)

// Apply returns a copy of subs where every subscription not matched to a
// known service is renamed by namer. A failed lookup keeps the heuristic
// name. subs itself is not modified.
func Apply(ctx context.Context, namer Namer, subs []models.ParsedSubscription, log zerolog.Logger) []models.ParsedSubscription {
	out := make([]models.ParsedSubscription, len(subs))
	copy(out, subs)
	if namer == nil {
		return out
	}

	for i := range out {
		sub := &out[i]
		if merchant.IsKnown(sub.Merchant) {
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("enrichment stopped")
			break
		}

		name, err := namer.CleanName(ctx, sub.Merchant)
		if err != nil {
			log.Warn().Err(err).Str("merchant", sub.Merchant).Msg("keeping heuristic name")
			continue
		}
		log.Debug().Str("from", sub.Name).Str("to", name).Msg("renamed subscription")

		sub.Name = name
		sub.ServiceName = name
		sub.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(detector.Key(*sub))).String()
	}
	return out
}
