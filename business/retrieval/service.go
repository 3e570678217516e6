package retrieval

import (
	"context"
	"errors"
	"fmt"

	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
)

type PoolReader interface {
	Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
}

type TierPolicyRepository interface {
	GetPolicy(ctx context.Context, tier domain.Tier, category domain.Category) (domain.TierPolicy, bool, error)
	ListPolicies(ctx context.Context) ([]domain.TierPolicy, error)
	UpsertPolicy(ctx context.Context, policy domain.TierPolicy) error
}

// Selection is one user's personalized slice of a day's pool.
type Selection struct {
	Profile  domain.UserProfile
	MaxPicks int
	PoolSize int
	Fallback bool
	Picks    []domain.Pick
}

// Service is read-only and safe for concurrent use.
type Service struct {
	pool     PoolReader
	profiles ProfileRepository
	policies TierPolicyRepository
}

func NewService(pool PoolReader, profiles ProfileRepository, policies TierPolicyRepository) *Service {
	return &Service{
		pool:     pool,
		profiles: profiles,
		policies: policies,
	}
}

// GetPicks filters the (date, category) pool to the user's risk levels and
// picks up to the tier limit round-robin across sports. When nothing matches
// the risk levels it falls back to the most confident picks of the whole pool.
// Returns domain.ErrPoolNotFound when nothing was generated for that day.
func (s *Service) GetPicks(ctx context.Context, userID string, category domain.Category, runDate string) (*Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	day, err := domain.ParseRunDate(runDate)
	if err != nil {
		return nil, err
	}
	runDate = domain.FormatRunDate(day)

	pool, err := s.pool.Query(ctx, runDate, category, "")
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrPoolNotFound, runDate, category)
	}

	profile := s.profile(ctx, userID)
	maxPicks := s.maxPicksFor(ctx, profile.Tier, category)

	sel := &Selection{
		Profile:  profile,
		MaxPicks: maxPicks,
		PoolSize: len(pool),
	}

	filtered := FilterByRisk(pool, profile.BettingStyle.AllowedRiskLevels())
	if len(filtered) == 0 {
		sel.Fallback = true
		sel.Picks = SelectTopConfidence(pool, maxPicks)
		RetrievalFallbackTotal.WithLabelValues(string(category), string(profile.BettingStyle)).Inc()
		logger.Info("no picks match risk levels, serving top confidence",
			"user_id", userID, "category", category, "date", runDate, "betting_style", profile.BettingStyle)
		return sel, nil
	}

	sel.Picks = SelectRoundRobin(filtered, maxPicks)
	return sel, nil
}

// profile never fails: lookup errors degrade to the free/balanced default.
func (s *Service) profile(ctx context.Context, userID string) domain.UserProfile {
	if s.profiles == nil {
		return domain.DefaultProfile(userID)
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		ProfileDefaultsTotal.Inc()
		if errors.Is(err, domain.ErrProfileNotFound) {
			logger.Info("profile not found, using default", "user_id", userID)
		} else {
			logger.Warn("profile lookup failed, using default", "user_id", userID, "error", err)
		}
		return domain.DefaultProfile(userID)
	}

	if _, ok := domain.ParseTier(string(p.Tier)); !ok {
		p.Tier = domain.TierFree
	}
	if _, ok := domain.ParseBettingStyle(string(p.BettingStyle)); !ok {
		p.BettingStyle = domain.StyleBalanced
	}
	p.UserID = userID
	return p
}
