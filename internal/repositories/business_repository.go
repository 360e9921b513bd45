package repositories

import (
	"errors"

	"courselab_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBusinessNotFound = errors.New("business not found")

type BusinessRepository interface {
	Create(business *models.Business) error
	FindByID(id string) (*models.Business, error)
	FindByOwnerID(ownerID string) (*models.Business, error)
	Update(business *models.Business) error
}

type BusinessRepositoryImpl struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &BusinessRepositoryImpl{db: db}
}

func (r *BusinessRepositoryImpl) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

func (r *BusinessRepositoryImpl) FindByID(id string) (*models.Business, error) {
	var business models.Business
	err := r.db.First(&business, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (r *BusinessRepositoryImpl) FindByOwnerID(ownerID string) (*models.Business, error) {
	var business models.Business
	err := r.db.First(&business, "owner_id = ?", ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (r *BusinessRepositoryImpl) Update(business *models.Business) error {
	return r.db.Save(business).Error
}
