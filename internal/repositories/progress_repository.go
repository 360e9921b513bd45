package repositories

import (
	"errors"

	"courselab_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProgressNotFound = errors.New("course progress not found")

type ProgressRepository interface {
	FindByUserAndCourse(userID, courseID string) (*models.CourseProgress, error)
	ListByUser(userID string) ([]models.CourseProgress, error)

	// Upsert inserts or replaces the (user, course) row.
	Upsert(progress *models.CourseProgress) error
}

type ProgressRepositoryImpl struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &ProgressRepositoryImpl{db: db}
}

func (r *ProgressRepositoryImpl) FindByUserAndCourse(userID, courseID string) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := r.db.First(&progress, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepositoryImpl) ListByUser(userID string) ([]models.CourseProgress, error) {
	var rows []models.CourseProgress
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ProgressRepositoryImpl) Upsert(progress *models.CourseProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed_modules", "last_position", "percent", "updated_at",
		}),
	}).Create(progress).Error
}
