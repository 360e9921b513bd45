package dto

import (
	"time"

	"courselab_backend/internal/models"
)

type PackageCheckoutRequest struct {
	PackageType string `json:"package_type" validate:"required,is-package-type"`
}

type StaffSeatCheckoutRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PaymentResponse struct {
	ID          string                `json:"id"`
	Amount      int64                 `json:"amount"`
	Currency    string                `json:"currency"`
	Purpose     models.PaymentPurpose `json:"purpose"`
	PackageType models.PackageType    `json:"package_type,omitempty"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"created_at"`
}

// AccessResponse answers "does this user currently have access". PackageType
// is nil when HasAccess is false.
type AccessResponse struct {
	HasAccess     bool             `json:"hasAccess"`
	PackageType   *string          `json:"packageType"`
	LatestPayment *PaymentResponse `json:"latestPayment"`
}

func NewPaymentResponse(p *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Purpose:     p.Purpose,
		PackageType: p.PackageType,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
