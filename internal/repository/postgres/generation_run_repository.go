package postgres

import (
	"context"
	"fmt"

	"sharpPicks/business/generator"
	"sharpPicks/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenerationRunRepository struct {
	DB *gorm.DB
}

var _ generator.RunRecorder = (*GenerationRunRepository)(nil)

func NewGenerationRunRepository(db *gorm.DB) *GenerationRunRepository {
	return &GenerationRunRepository{DB: db}
}

// SaveRun inserts the run on start and overwrites it when it finishes.
func (r *GenerationRunRepository) SaveRun(ctx context.Context, run *domain.GenerationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		},
	).Create(run).Error; err != nil {
		return fmt.Errorf("failed to upsert generation run: %w", err)
	}

	return nil
}

// ListRuns returns runs for a date, newest first. An empty date lists the
// most recent runs across all dates.
func (r *GenerationRunRepository) ListRuns(ctx context.Context, runDate string, limit int) ([]domain.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	q := r.DB.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if runDate != "" {
		q = q.Where("run_date = ?", runDate)
	}

	var runs []domain.GenerationRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}
	return runs, nil
}
