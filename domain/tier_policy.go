package domain

import "time"

// TierPolicy overrides the default picks-per-day limit for one tier and category.
type TierPolicy struct {
	Tier      Tier      `gorm:"column:tier;type:text;primaryKey" json:"tier"`
	Category  Category  `gorm:"column:category;type:text;primaryKey" json:"category"`
	MaxPicks  int       `gorm:"column:max_picks;not null" json:"max_picks"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TierPolicy) TableName() string {
	return "tier_policies"
}
