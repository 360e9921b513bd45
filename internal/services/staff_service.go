package services

import (
	"fmt"
	"strings"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/auth"
	"courselab_backend/internal/email"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"
)

type StaffService interface {
	// CreateStaff pre-creates an inactive staff account under the owner's
	// business. The account is activated by the staff seat webhook, not here.
	CreateStaff(ownerID string, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)

	ListStaff(ownerID string) ([]dto.StaffResponse, error)
	SetStaffActive(ownerID, staffID string, active bool) error
	RemoveStaff(ownerID, staffID string) error
}

type StaffServiceImpl struct {
	userRepo      repositories.UserRepository
	businessRepo  repositories.BusinessRepository
	emailProvider email.Provider
	baseURL       string
}

func NewStaffService(
	userRepo repositories.UserRepository,
	businessRepo repositories.BusinessRepository,
	emailProvider email.Provider,
	baseURL string,
) StaffService {
	return &StaffServiceImpl{
		userRepo:      userRepo,
		businessRepo:  businessRepo,
		emailProvider: emailProvider,
		baseURL:       baseURL,
	}
}

func (s *StaffServiceImpl) CreateStaff(ownerID string, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	business, err := s.ownerBusiness(ownerID)
	if err != nil {
		return nil, err
	}

	if !emailInDomain(req.Email, business.Domain) {
		return nil, apperrors.ErrDomainMismatch
	}

	tempPassword := generateRandomToken()[:16]
	hashedPassword, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	staff := &models.User{
		Email:              req.Email,
		PasswordHash:       hashedPassword,
		Name:               req.Name,
		Role:               models.UserRoleUser,
		BusinessID:         &business.ID,
		IsActive:           false,
		MustChangePassword: true,
	}

	if err := s.userRepo.Create(staff); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendInviteEmail(staff, business, tempPassword)

	return staffResponse(staff), nil
}

func (s *StaffServiceImpl) ListStaff(ownerID string) ([]dto.StaffResponse, error) {
	business, err := s.ownerBusiness(ownerID)
	if err != nil {
		return nil, err
	}

	staff, err := s.userRepo.FindStaffByBusiness(business.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		responses = append(responses, *staffResponse(&staff[i]))
	}
	return responses, nil
}

func (s *StaffServiceImpl) SetStaffActive(ownerID, staffID string, active bool) error {
	if _, err := s.staffOfOwner(ownerID, staffID); err != nil {
		return err
	}
	return s.userRepo.SetActive(staffID, active)
}

// RemoveStaff detaches the staff account from the business. The user row
// survives, keeping the ledger's foreign keys intact.
func (s *StaffServiceImpl) RemoveStaff(ownerID, staffID string) error {
	if _, err := s.staffOfOwner(ownerID, staffID); err != nil {
		return err
	}
	return s.userRepo.ClearBusiness(staffID)
}

// --- helpers ---

func (s *StaffServiceImpl) ownerBusiness(ownerID string) (*models.Business, error) {
	business, err := s.businessRepo.FindByOwnerID(ownerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBusinessNotFound) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return business, nil
}

func (s *StaffServiceImpl) staffOfOwner(ownerID, staffID string) (*models.User, error) {
	business, err := s.ownerBusiness(ownerID)
	if err != nil {
		return nil, err
	}

	staff, err := s.userRepo.FindByID(staffID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	if staff.BusinessID == nil || *staff.BusinessID != business.ID {
		return nil, apperrors.NewForbiddenError("Staff member does not belong to your business")
	}
	return staff, nil
}

func (s *StaffServiceImpl) sendInviteEmail(staff *models.User, business *models.Business, tempPassword string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		data := email.TemplateData{
			"Name":         staff.Name,
			"BusinessName": business.Name,
			"TempPassword": tempPassword,
			"LoginURL":     fmt.Sprintf("%s/login", s.baseURL),
		}
		if err := s.emailProvider.SendTemplate([]string{staff.Email}, "You have been invited", email.TemplateStaffInvite, data); err != nil {
			logger.Error("failed to send staff invite email", "error", err, "staff_id", staff.ID)
		}
	}()
}

func staffResponse(user *models.User) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
}

func emailInDomain(emailAddr, domain string) bool {
	at := strings.LastIndex(emailAddr, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(emailAddr[at+1:], domain)
}
