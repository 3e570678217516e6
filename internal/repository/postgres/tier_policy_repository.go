package postgres

import (
	"context"
	"errors"
	"fmt"

	"sharpPicks/business/retrieval"
	"sharpPicks/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TierPolicyRepository struct {
	DB *gorm.DB
}

var _ retrieval.TierPolicyRepository = (*TierPolicyRepository)(nil)

func NewTierPolicyRepository(db *gorm.DB) *TierPolicyRepository {
	return &TierPolicyRepository{DB: db}
}

func (r *TierPolicyRepository) GetPolicy(ctx context.Context, tier domain.Tier, category domain.Category) (domain.TierPolicy, bool, error) {
	var policy domain.TierPolicy

	err := r.DB.WithContext(ctx).
		Where("tier = ? AND category = ?", tier, category).
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TierPolicy{}, false, nil
	}
	if err != nil {
		return domain.TierPolicy{}, false, fmt.Errorf("failed to query tier policy: %w", err)
	}

	return policy, true, nil
}

func (r *TierPolicyRepository) ListPolicies(ctx context.Context) ([]domain.TierPolicy, error) {
	var policies []domain.TierPolicy
	if err := r.DB.WithContext(ctx).Order("tier, category").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list tier policies: %w", err)
	}
	return policies, nil
}

func (r *TierPolicyRepository) UpsertPolicy(ctx context.Context, policy domain.TierPolicy) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tier"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"max_picks", "updated_at"}),
		}).
		Create(&policy).Error
}
