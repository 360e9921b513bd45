package billing

import (
	"net/http"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/auth"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// Metadata keys attached to checkout sessions. The webhook reconciler acts
// on these alone, no further lookups.
const (
	metaUserID      = "user_id"
	metaPurpose     = "purpose"
	metaPackageType = "package_type"
	metaDescription = "description"
	metaStaffID     = "staff_id"
	metaStaffName   = "staff_name"
	metaStaffEmail  = "staff_email"
	metaStaffRole   = "staff_role"
)

type CheckoutService interface {
	// CreatePackageCheckout opens a hosted payment session for a whole-plan
	// purchase and returns the redirect URL.
	CreatePackageCheckout(userID string, req *dto.PackageCheckoutRequest) (*dto.CheckoutResponse, error)

	// CreateStaffSeatCheckout opens a session paying for one staff seat. The
	// beneficiary identity travels in the session metadata.
	CreateStaffSeatCheckout(ownerID string, req *dto.StaffSeatCheckoutRequest) (*dto.CheckoutResponse, error)
}

type CheckoutServiceImpl struct {
	userRepo     repositories.UserRepository
	businessRepo repositories.BusinessRepository
	currency     string
	baseURL      string

	// Replaced in tests; defaults to the Stripe API call.
	createSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewCheckoutService(
	userRepo repositories.UserRepository,
	businessRepo repositories.BusinessRepository,
	currency string,
	baseURL string,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		userRepo:     userRepo,
		businessRepo: businessRepo,
		currency:     currency,
		baseURL:      baseURL,
		createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			return session.New(params)
		},
	}
}

func (s *CheckoutServiceImpl) CreatePackageCheckout(userID string, req *dto.PackageCheckoutRequest) (*dto.CheckoutResponse, error) {
	user, err := s.caller(userID)
	if err != nil {
		return nil, err
	}

	if !auth.HasPermission(user.Role, auth.PermCheckoutPackage) {
		return nil, apperrors.ErrForbidden
	}

	item, ok := PackageItem(models.PackageType(req.PackageType))
	if !ok {
		return nil, apperrors.ErrUnknownPackage
	}

	params := s.sessionParams(user, item)
	params.AddMetadata(metaUserID, user.ID)
	params.AddMetadata(metaPurpose, string(item.Purpose))
	params.AddMetadata(metaPackageType, string(item.PackageType))
	params.AddMetadata(metaDescription, item.Description)

	return s.open(params)
}

func (s *CheckoutServiceImpl) CreateStaffSeatCheckout(ownerID string, req *dto.StaffSeatCheckoutRequest) (*dto.CheckoutResponse, error) {
	owner, err := s.caller(ownerID)
	if err != nil {
		return nil, err
	}

	if !auth.HasPermission(owner.Role, auth.PermCheckoutStaffSeat) {
		return nil, apperrors.ErrForbidden
	}

	business, err := s.businessRepo.FindByOwnerID(owner.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBusinessNotFound) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	staff, err := s.userRepo.FindByID(req.StaffID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if staff.BusinessID == nil || *staff.BusinessID != business.ID {
		return nil, apperrors.NewForbiddenError("Staff member does not belong to your business")
	}

	item := StaffSeatItem()

	params := s.sessionParams(owner, item)
	params.AddMetadata(metaUserID, owner.ID)
	params.AddMetadata(metaPurpose, string(item.Purpose))
	params.AddMetadata(metaPackageType, string(item.PackageType))
	params.AddMetadata(metaDescription, item.Description)
	params.AddMetadata(metaStaffID, staff.ID)
	params.AddMetadata(metaStaffName, staff.Name)
	params.AddMetadata(metaStaffEmail, staff.Email)
	params.AddMetadata(metaStaffRole, string(staff.Role))

	return s.open(params)
}

// --- helpers ---

func (s *CheckoutServiceImpl) caller(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *CheckoutServiceImpl) sessionParams(payer *models.User, item CatalogItem) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(payer.Email),
		SuccessURL:    stripe.String(s.baseURL + "/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.baseURL + "/pricing?checkout=cancelled"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.currency),
					UnitAmount: stripe.Int64(item.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(item.Description),
					},
				},
			},
		},
	}
}

func (s *CheckoutServiceImpl) open(params *stripe.CheckoutSessionParams) (*dto.CheckoutResponse, error) {
	sess, err := s.createSession(params)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "Failed to create checkout session", http.StatusBadGateway)
	}
	return &dto.CheckoutResponse{URL: sess.URL}, nil
}
