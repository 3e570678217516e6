package database

import (
	"fmt"

	"gorm.io/gorm"

	"sharpPicks/domain"
)

// AutoMigrate creates the tables this service owns. The users table belongs
// to the profile system and is never migrated here.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Pick{}, &domain.TierPolicy{}, &domain.GenerationRun{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
