package repositories

import (
	"errors"

	"courselab_backend/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicatePayment is returned when the ledger already holds a row for
// the provider id. The unique index on provider_id is the sole defence
// against double-applied webhook deliveries, callers treat this error as
// "already handled".
var ErrDuplicatePayment = errors.New("payment already recorded for provider id")

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(payment *models.Payment) error
	FindByProviderID(providerID string) (*models.Payment, error)

	// LatestByPurpose returns the caller's most recent ledger row of the
	// given purpose, or ErrPaymentNotFound.
	LatestByPurpose(userID string, purpose models.PaymentPurpose) (*models.Payment, error)

	ListByUser(userID string) ([]models.Payment, error)
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(payment *models.Payment) error {
	err := r.db.Create(payment).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicatePayment
	}
	return err
}

func (r *PaymentRepositoryImpl) FindByProviderID(providerID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "provider_id = ?", providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) LatestByPurpose(userID string, purpose models.PaymentPurpose) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("user_id = ? AND purpose = ?", userID, purpose).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) ListByUser(userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
