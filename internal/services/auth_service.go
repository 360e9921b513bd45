package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/auth"
	"courselab_backend/internal/email"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"
	"courselab_backend/internal/validator"
)

const (
	resetTokenTTL   = 1 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	ChangePassword(userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	businessRepo     repositories.BusinessRepository
	resetTokenRepo   repositories.ResetTokenRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	tokens           *auth.TokenManager
	baseURL          string
}

func NewAuthService(
	userRepo repositories.UserRepository,
	businessRepo repositories.BusinessRepository,
	resetTokenRepo repositories.ResetTokenRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	tokens *auth.TokenManager,
	baseURL string,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		businessRepo:     businessRepo,
		resetTokenRepo:   resetTokenRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		tokens:           tokens,
		baseURL:          baseURL,
	}
}

// Register creates a user, and for business signups the linked Business.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if !validator.StrongPassword(req.Password) {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	role := models.UserRoleUser
	if req.IsBusiness() {
		role = models.UserRoleBusinessOwner
		if req.BusinessDomain == "" {
			return nil, apperrors.NewBadRequestError("business_domain is required for business signups")
		}
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if req.IsBusiness() {
		business := &models.Business{
			Name:    req.BusinessName,
			OwnerID: user.ID,
			Domain:  req.BusinessDomain,
		}
		if err := s.businessRepo.Create(business); err != nil {
			s.rollbackRegistration(user.ID)
			return nil, apperrors.InternalError(err)
		}

		user.BusinessID = &business.ID
		if err := s.userRepo.Update(user); err != nil {
			s.rollbackRegistration(user.ID)
			return nil, apperrors.InternalError(err)
		}
	}

	s.sendWelcomeEmail(user)

	return dto.NewUserResponse(user), nil
}

// rollbackRegistration removes the half-created user so the email stays
// claimable after a failed business signup.
func (s *AuthServiceImpl) rollbackRegistration(userID string) {
	if err := s.userRepo.Delete(userID); err != nil {
		logger.Error("failed to roll back partial registration", "error", err, "user_id", userID)
	}
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	return s.buildLoginResponse(user)
}

// RefreshToken rotates the refresh token and issues a fresh access token.
// The user row is re-read here, so entitlement changes applied by the
// webhook since the last issue show up in the new token's claims.
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	return s.refreshTokenRepo.DeleteByToken(refreshToken)
}

// RequestPasswordReset never reveals whether the email exists. The generic
// success is the handler's concern; this returns nil for unknown or
// inactive accounts after doing nothing.
func (s *AuthServiceImpl) RequestPasswordReset(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil
	}
	if !user.IsActive {
		return nil
	}

	resetToken := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     generateRandomToken(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	if err := s.resetTokenRepo.Create(resetToken); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendPasswordResetEmail(user, resetToken.Token)
	return nil
}

// ResetPassword consumes the token. Expired tokens are deleted on sight so
// a second attempt with the same token fails as not-found.
func (s *AuthServiceImpl) ResetPassword(token, newPassword string) error {
	resetToken, err := s.resetTokenRepo.FindByToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if !time.Now().Before(resetToken.ExpiresAt) {
		s.resetTokenRepo.DeleteByToken(token)
		return apperrors.ErrInvalidToken
	}

	if !validator.StrongPassword(newPassword) {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByID(resetToken.UserID)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword, false); err != nil {
		return apperrors.InternalError(err)
	}

	// Invalidate every outstanding recovery token and session for the user.
	s.resetTokenRepo.DeleteByUserID(user.ID)
	s.refreshTokenRepo.DeleteByUserID(user.ID)

	return nil
}

// ChangePassword verifies the current password, rejects reuse and clears
// the must-change flag set on pre-created staff accounts.
func (s *AuthServiceImpl) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if currentPassword == newPassword {
		return apperrors.ErrPasswordReuse
	}

	if !validator.StrongPassword(newPassword) {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return s.userRepo.UpdatePassword(user.ID, hashedPassword, false)
}

// --- helpers ---

func (s *AuthServiceImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.createRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) createRefreshToken(userID string) (string, error) {
	refreshToken := &models.RefreshToken{
		UserID:    userID,
		Token:     generateRandomToken(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func (s *AuthServiceImpl) sendWelcomeEmail(user *models.User) {
	if s.emailProvider == nil {
		return
	}

	loginURL := fmt.Sprintf("%s/login", s.baseURL)

	go func() {
		data := email.TemplateData{
			"Name":     user.Name,
			"LoginURL": loginURL,
		}
		if err := s.emailProvider.SendTemplate([]string{user.Email}, "Welcome to courselab", email.TemplateWelcome, data); err != nil {
			logger.Error("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}()
}

func (s *AuthServiceImpl) sendPasswordResetEmail(user *models.User, token string) {
	if s.emailProvider == nil {
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)

	go func() {
		data := email.TemplateData{
			"Name":     user.Name,
			"ResetURL": resetURL,
		}
		if err := s.emailProvider.SendTemplate([]string{user.Email}, "Reset your password", email.TemplatePasswordReset, data); err != nil {
			logger.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		}
	}()
}

// generateRandomToken returns a 64 character hex token.
func generateRandomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
