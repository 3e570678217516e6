package retrieval

import (
	"context"
	"fmt"

	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
)

// maxPicksFor reads the tier override for category, falling back to the
// tier's default limit.
func (s *Service) maxPicksFor(ctx context.Context, tier domain.Tier, category domain.Category) int {
	if s.policies == nil {
		return tier.DefaultMaxPicks()
	}

	policy, ok, err := s.policies.GetPolicy(ctx, tier, category)
	if err != nil {
		logger.Warn("tier policy lookup failed, using default", "tier", tier, "category", category, "error", err)
		return tier.DefaultMaxPicks()
	}
	if !ok || policy.MaxPicks <= 0 {
		return tier.DefaultMaxPicks()
	}
	return policy.MaxPicks
}

// TierPolicies returns the effective limit for every tier and category.
func (s *Service) TierPolicies(ctx context.Context) ([]domain.TierPolicy, error) {
	overrides := map[string]domain.TierPolicy{}
	if s.policies != nil {
		rows, err := s.policies.ListPolicies(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			overrides[policyKey(p.Tier, p.Category)] = p
		}
	}

	out := make([]domain.TierPolicy, 0, len(domain.Tiers)*len(domain.Categories))
	for _, tier := range domain.Tiers {
		for _, category := range domain.Categories {
			if p, ok := overrides[policyKey(tier, category)]; ok && p.MaxPicks > 0 {
				out = append(out, p)
				continue
			}
			out = append(out, domain.TierPolicy{Tier: tier, Category: category, MaxPicks: tier.DefaultMaxPicks()})
		}
	}
	return out, nil
}

func (s *Service) SetTierPolicy(ctx context.Context, policy domain.TierPolicy) error {
	if _, ok := domain.ParseTier(string(policy.Tier)); !ok {
		return fmt.Errorf("unknown tier %q", policy.Tier)
	}
	if !policy.Category.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, policy.Category)
	}
	if policy.MaxPicks <= 0 {
		return fmt.Errorf("max picks must be positive, got %d", policy.MaxPicks)
	}
	if s.policies == nil {
		return fmt.Errorf("tier policies are not configured")
	}
	return s.policies.UpsertPolicy(ctx, policy)
}

func policyKey(tier domain.Tier, category domain.Category) string {
	return string(tier) + "|" + string(category)
}
