package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sharpPicks/business/retrieval"
	"sharpPicks/domain"

	"gorm.io/gorm"
)

// ProfileRepository implements retrieval.ProfileRepository using the
// profile system's "users" table.
type ProfileRepository struct {
	DB *gorm.DB
}

var _ retrieval.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("context error: %w", err)
	}

	var row struct {
		Tier         sql.NullString `gorm:"column:tier"`
		BettingStyle sql.NullString `gorm:"column:betting_style"`
	}

	res := r.DB.WithContext(ctx).
		Table("users").
		Select("tier, betting_style").
		Where("id = ?", userID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return domain.UserProfile{}, &domain.ProfileLookupError{UserID: userID, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.UserProfile{}, &domain.ProfileLookupError{UserID: userID, Err: domain.ErrProfileNotFound}
	}

	p := domain.DefaultProfile(userID)
	if tier, ok := domain.ParseTier(row.Tier.String); row.Tier.Valid && ok {
		p.Tier = tier
	}
	if style, ok := domain.ParseBettingStyle(row.BettingStyle.String); row.BettingStyle.Valid && ok {
		p.BettingStyle = style
	}

	return p, nil
}
