package dto

import "courselab_backend/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpw"`

	// Business signups create the Business alongside the owner account.
	BusinessName   string `json:"business_name,omitempty" validate:"omitempty,max=120"`
	BusinessDomain string `json:"business_domain,omitempty" validate:"omitempty,fqdn"`
}

// IsBusiness reports whether the signup should create a business owner.
func (r *RegisterRequest) IsBusiness() bool {
	return r.BusinessName != ""
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpw"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpw"`
}

type UserResponse struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	Role               models.UserRole    `json:"role"`
	BusinessID         *string            `json:"business_id,omitempty"`
	HasPaid            bool               `json:"has_paid"`
	PackageType        models.PackageType `json:"package_type,omitempty"`
	IsActive           bool               `json:"is_active"`
	MustChangePassword bool               `json:"must_change_password"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               user.Role,
		BusinessID:         user.BusinessID,
		HasPaid:            user.HasPaid,
		PackageType:        user.PackageType,
		IsActive:           user.IsActive,
		MustChangePassword: user.MustChangePassword,
	}
}
