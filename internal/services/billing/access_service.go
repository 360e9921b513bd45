package billing

import (
	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"
)

type AccessService interface {
	// Evaluate answers whether the caller currently has access and on which
	// plan. The ledger is authoritative here; the user flag only feeds
	// session claims. The view is eventually consistent with checkout, the
	// client polls briefly after a payment redirect.
	Evaluate(userID string) (*dto.AccessResponse, error)

	History(userID string) ([]dto.PaymentResponse, error)
}

type AccessServiceImpl struct {
	paymentRepo repositories.PaymentRepository
}

func NewAccessService(paymentRepo repositories.PaymentRepository) AccessService {
	return &AccessServiceImpl{paymentRepo: paymentRepo}
}

func (s *AccessServiceImpl) Evaluate(userID string) (*dto.AccessResponse, error) {
	// Whole-plan purchase first.
	payment, err := s.paymentRepo.LatestByPurpose(userID, models.PaymentPurposePackage)
	if err == nil {
		packageType := string(payment.PackageType)
		if packageType == "" {
			packageType = string(models.PackageTypeIndividual)
		}
		return &dto.AccessResponse{
			HasAccess:     true,
			PackageType:   &packageType,
			LatestPayment: dto.NewPaymentResponse(payment),
		}, nil
	}
	if !apperrors.Is(err, repositories.ErrPaymentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// Staff whose seat payment is recorded under their own id. A seat is
	// business-provided access regardless of the row's classifier.
	payment, err = s.paymentRepo.LatestByPurpose(userID, models.PaymentPurposeStaffSeat)
	if err == nil {
		packageType := string(models.PackageTypeBusiness)
		return &dto.AccessResponse{
			HasAccess:     true,
			PackageType:   &packageType,
			LatestPayment: dto.NewPaymentResponse(payment),
		}, nil
	}
	if !apperrors.Is(err, repositories.ErrPaymentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AccessResponse{HasAccess: false}, nil
}

func (s *AccessServiceImpl) History(userID string) ([]dto.PaymentResponse, error) {
	payments, err := s.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *dto.NewPaymentResponse(&payments[i]))
	}
	return responses, nil
}
