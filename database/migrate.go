package database

import (
	"courselab_backend/internal/logger"
	"courselab_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema. AutoMigrate is additive, it never drops
// columns, so it is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Payment{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.CourseProgress{},
	)
	if err != nil {
		return err
	}

	logger.Info("database migrations applied")
	return nil
}
