package postgres

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"sharpPicks/domain"
)

func TestGenerationRunRepository_SaveAndList(t *testing.T) {
	repo := NewGenerationRunRepository(newTestDB(t))
	ctx := context.Background()
	start := time.Date(2025, 9, 23, 6, 0, 0, 0, time.UTC)

	run := &domain.GenerationRun{
		ID:             "run-1",
		RunDate:        "2025-09-23",
		Category:       domain.CategoryTeam,
		Status:         domain.RunRunning,
		TargetPoolSize: 25,
		StartedAt:      start,
	}
	if err := repo.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun start: %v", err)
	}

	finished := start.Add(time.Minute)
	run.Status = domain.RunSucceeded
	run.Accepted = 20
	run.RiskCounts = datatypes.JSONMap{"Low": 7, "Medium": 10, "High": 3}
	run.FinishedAt = &finished
	if err := repo.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun finish: %v", err)
	}

	later := &domain.GenerationRun{
		ID:        "run-2",
		RunDate:   "2025-09-23",
		Category:  domain.CategoryPlayerProp,
		Status:    domain.RunFailed,
		StartedAt: start.Add(time.Hour),
	}
	if err := repo.SaveRun(ctx, later); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := repo.ListRuns(ctx, "2025-09-23", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Fatalf("not newest first: %s", runs[0].ID)
	}
	if runs[1].Status != domain.RunSucceeded || runs[1].Accepted != 20 || runs[1].FinishedAt == nil {
		t.Fatalf("finished run not overwritten: %+v", runs[1])
	}

	other, err := repo.ListRuns(ctx, "2025-09-24", 10)
	if err != nil || len(other) != 0 {
		t.Fatalf("other date = %d (%v)", len(other), err)
	}
}
