package postgres

import (
	"context"
	"fmt"
	"strings"

	"sharpPicks/business/generator"
	"sharpPicks/business/retrieval"
	"sharpPicks/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PickRepository struct {
	DB *gorm.DB
}

var (
	_ generator.PickStore  = (*PickRepository)(nil)
	_ retrieval.PoolReader = (*PickRepository)(nil)
)

func NewPickRepository(db *gorm.DB) *PickRepository {
	return &PickRepository{DB: db}
}

const writeBatchSize = 100

// Write upserts on the natural key (run_date, category, subject, selection).
// A repeated key overwrites the stored row; ids and created_at are kept.
func (r *PickRepository) Write(ctx context.Context, picks []domain.Pick) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(picks) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "run_date"},
				{Name: "category"},
				{Name: "subject"},
				{Name: "selection"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"sport",
				"odds",
				"confidence",
				"risk_level",
				"reasoning",
				"metadata",
				"updated_at",
			}),
		}).
		CreateInBatches(&picks, writeBatchSize).Error
	if err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}

	return nil
}

// Query returns the pool for (date, category). sport is optional and matched
// case-insensitively.
func (r *PickRepository) Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Where("run_date = ? AND category = ?", runDate, category)
	if s := strings.TrimSpace(sport); s != "" {
		q = q.Where("sport = ?", strings.ToUpper(s))
	}

	var picks []domain.Pick
	if err := q.Find(&picks).Error; err != nil {
		return nil, &domain.StorageError{Op: "query", Err: err}
	}

	return picks, nil
}
