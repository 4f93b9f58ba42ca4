package directory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gate-pass-api-server/internal/models"
)

// EnrichedGatePass is a gate pass with its sender (and, for internal
// receivers, receiver) profile resolved for display.
type EnrichedGatePass struct {
	models.GatePass
	Sender          models.UserProfile  `json:"sender"`
	ReceiverProfile *models.UserProfile `json:"receiverProfile,omitempty"`
}

// EnrichGatePasses resolves the profiles for one listing page. All lookups
// run in parallel; a failed lookup degrades that record to the placeholder
// profile instead of failing the page.
func (c *Cache) EnrichGatePasses(ctx context.Context, passes []models.GatePass) []EnrichedGatePass {
	enriched := make([]EnrichedGatePass, len(passes))
	g, gctx := errgroup.WithContext(ctx)
	for i := range passes {
		enriched[i].GatePass = passes[i]
		g.Go(func() error {
			enriched[i].Sender = c.ProfileOrPlaceholder(gctx, passes[i].SenderServiceNo)
			return nil
		})
		if sn := passes[i].Receiver.ServiceNo; sn != "" && !passes[i].Receiver.NonMember {
			g.Go(func() error {
				profile := c.ProfileOrPlaceholder(gctx, sn)
				enriched[i].ReceiverProfile = &profile
				return nil
			})
		}
	}
	g.Wait()
	return enriched
}
