package repositories

import (
	"errors"
	"time"

	"courselab_backend/internal/models"

	"gorm.io/gorm"
)

var ErrResetTokenNotFound = errors.New("password reset token not found")

type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	FindByToken(token string) (*models.PasswordResetToken, error)
	DeleteByToken(token string) error

	// DeleteByUserID removes every outstanding token for the user. Called on
	// successful reset so sibling tokens cannot be replayed.
	DeleteByUserID(userID string) error

	DeleteExpired() (int64, error)
}

type ResetTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &ResetTokenRepositoryImpl{db: db}
}

func (r *ResetTokenRepositoryImpl) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *ResetTokenRepositoryImpl) FindByToken(token string) (*models.PasswordResetToken, error) {
	var resetToken models.PasswordResetToken
	err := r.db.First(&resetToken, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &resetToken, nil
}

func (r *ResetTokenRepositoryImpl) DeleteByToken(token string) error {
	return r.db.Delete(&models.PasswordResetToken{}, "token = ?", token).Error
}

func (r *ResetTokenRepositoryImpl) DeleteByUserID(userID string) error {
	return r.db.Delete(&models.PasswordResetToken{}, "user_id = ?", userID).Error
}

func (r *ResetTokenRepositoryImpl) DeleteExpired() (int64, error) {
	result := r.db.Delete(&models.PasswordResetToken{}, "expires_at < ?", time.Now())
	return result.RowsAffected, result.Error
}
