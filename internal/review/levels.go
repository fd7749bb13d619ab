package review

import "context"

// Contributor tiers, highest first. A member holds at most the single highest
// tier their live review count reaches.
type Tier struct {
	Name      string
	Threshold int64
}

var tiers = []Tier{
	{Name: "Otakin", Threshold: 30},
	{Name: "Guatón", Threshold: 20},
	{Name: "Regalón", Threshold: 10},
}

// TierNames lists every tier role name, highest first.
func TierNames() []string {
	names := make([]string, len(tiers))
	for i, tier := range tiers {
		names[i] = tier.Name
	}
	return names
}

// TierFor returns the tier a review count earns, or false when it earns none.
func TierFor(count int64) (Tier, bool) {
	for _, tier := range tiers {
		if count >= tier.Threshold {
			return tier, true
		}
	}
	return Tier{}, false
}

// syncContributorTier recounts the author's live reviews and reconciles their
// guild role. Best-effort: failures are logged and never reach the invoker.
func (s *Service) syncContributorTier(ctx context.Context, guildID, authorID string) {
	if s.roles == nil {
		return
	}
	count, err := s.store.Reviews.CountByAuthor(ctx, authorID)
	if err != nil {
		s.logger.Warnw("review count for tier sync failed", "author_id", authorID, "error", err)
		return
	}
	name := ""
	if tier, ok := TierFor(count); ok {
		name = tier.Name
	}
	if err := s.roles.SyncMemberTier(ctx, guildID, authorID, name); err != nil {
		s.logger.Warnw("tier role sync failed", "author_id", authorID, "tier", name, "error", err)
	}
}
