package postgres

import (
	"context"
	"errors"
	"testing"

	"sharpPicks/domain"
)

func TestProfileRepository_GetProfile(t *testing.T) {
	db := newTestDB(t)
	if err := db.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY, tier TEXT, betting_style TEXT)`).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
	if err := db.Exec(`INSERT INTO users (id, tier, betting_style) VALUES
		('u-elite', 'elite', 'aggressive'),
		('u-odd', 'platinum', NULL)`).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	repo := NewProfileRepository(db)
	ctx := context.Background()

	p, err := repo.GetProfile(ctx, "u-elite")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Tier != domain.TierElite || p.BettingStyle != domain.StyleAggressive || p.UserID != "u-elite" {
		t.Fatalf("profile = %+v", p)
	}

	p, err = repo.GetProfile(ctx, "u-odd")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Tier != domain.TierFree || p.BettingStyle != domain.StyleBalanced {
		t.Fatalf("unknown values should default, got %+v", p)
	}

	_, err = repo.GetProfile(ctx, "nobody")
	var le *domain.ProfileLookupError
	if !errors.As(err, &le) || !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ProfileLookupError wrapping ErrProfileNotFound", err)
	}
}

func TestProfileRepository_MissingTable(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))

	_, err := repo.GetProfile(context.Background(), "u1")
	var le *domain.ProfileLookupError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want ProfileLookupError", err)
	}
}
