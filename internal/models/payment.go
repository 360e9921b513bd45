package models

// Payment is the entitlement ledger. Rows are immutable once created. The
// unique index on ProviderID is the only thing standing between the system
// and double-applied webhook deliveries, keep it.
type Payment struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount   int64  `gorm:"not null" json:"amount"` // minor units
	Currency string `gorm:"type:varchar(3);not null" json:"currency"`

	// Provider-assigned id (checkout session id). Idempotency key.
	ProviderID string `gorm:"uniqueIndex;not null" json:"provider_id"`

	Purpose PaymentPurpose `gorm:"type:varchar(20);not null" json:"purpose"`

	// Canonical plan classifier. Description below is display-only and is
	// never parsed to infer the plan.
	PackageType PackageType `gorm:"type:varchar(20)" json:"package_type,omitempty"`
	Description string      `json:"description"`
}
