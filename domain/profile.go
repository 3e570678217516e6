package domain

import "strings"

type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

var Tiers = []Tier{TierFree, TierPro, TierElite}

func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TierFree, TierPro, TierElite:
		return t, true
	}
	return "", false
}

type BettingStyle string

const (
	StyleConservative BettingStyle = "conservative"
	StyleBalanced     BettingStyle = "balanced"
	StyleAggressive   BettingStyle = "aggressive"
)

func ParseBettingStyle(s string) (BettingStyle, bool) {
	b := BettingStyle(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case StyleConservative, StyleBalanced, StyleAggressive:
		return b, true
	}
	return "", false
}

var allowedRiskLevels = map[BettingStyle][]RiskLevel{
	StyleConservative: {RiskLow},
	StyleBalanced:     {RiskLow, RiskMedium},
	StyleAggressive:   {RiskLow, RiskMedium, RiskHigh},
}

// AllowedRiskLevels returns a fresh slice; unknown styles get the balanced set.
func (b BettingStyle) AllowedRiskLevels() []RiskLevel {
	levels, ok := allowedRiskLevels[b]
	if !ok {
		levels = allowedRiskLevels[StyleBalanced]
	}
	return append([]RiskLevel(nil), levels...)
}

func (b BettingStyle) Allows(level RiskLevel) bool {
	for _, l := range b.AllowedRiskLevels() {
		if l == level {
			return true
		}
	}
	return false
}

// defaultMaxPicks is the per-day limit per category for each tier. The same
// count applies to team and player_prop pools.
var defaultMaxPicks = map[Tier]int{
	TierFree:  1,
	TierPro:   10,
	TierElite: 15,
}

func (t Tier) DefaultMaxPicks() int {
	if n, ok := defaultMaxPicks[t]; ok {
		return n
	}
	return defaultMaxPicks[TierFree]
}

// UserProfile is owned by the external auth/profile system. Only tier and
// betting style are read here.
type UserProfile struct {
	UserID       string       `json:"user_id"`
	Tier         Tier         `json:"tier"`
	BettingStyle BettingStyle `json:"betting_style"`
}

// DefaultProfile is what a user gets when the profile cannot be read.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{
		UserID:       userID,
		Tier:         TierFree,
		BettingStyle: StyleBalanced,
	}
}
