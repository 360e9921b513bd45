package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Staff users reference the business that bought their seat. Removal
	// nulls the reference, the row itself is never deleted.
	BusinessID *string `gorm:"type:uuid;index" json:"business_id,omitempty"`

	// Entitlement state, mutated only by the webhook reconciler.
	HasPaid     bool        `gorm:"default:false" json:"has_paid"`
	PackageType PackageType `gorm:"type:varchar(20)" json:"package_type,omitempty"`

	IsActive           bool `gorm:"default:true" json:"is_active"`
	MustChangePassword bool `gorm:"default:false" json:"must_change_password"`

	// Relations
	Business      *Business            `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Payments      []Payment            `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens []RefreshToken       `gorm:"foreignKey:UserID" json:"-"`
	ResetTokens   []PasswordResetToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

type PasswordResetToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
