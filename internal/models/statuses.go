package models

type UserRole string
type PackageType string
type PaymentPurpose string
type SubscriptionStatus string

const (
	UserRoleUser          UserRole = "user"
	UserRoleBusinessOwner UserRole = "business_owner"
	UserRoleAdmin         UserRole = "admin"

	PackageTypeIndividual PackageType = "individual"
	PackageTypeBusiness   PackageType = "business"

	PaymentPurposePackage   PaymentPurpose = "package"
	PaymentPurposeStaffSeat PaymentPurpose = "staff_seat"
)

// Subscription statuses as reported by the payment provider. The entitled
// set deliberately includes past_due: a failed-but-retrying payment keeps
// access during the grace period.
const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

func (s SubscriptionStatus) Entitled() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue:
		return true
	}
	return false
}

func ValidPackageType(t PackageType) bool {
	return t == PackageTypeIndividual || t == PackageTypeBusiness
}

func ValidUserRole(r UserRole) bool {
	return r == UserRoleUser || r == UserRoleBusinessOwner || r == UserRoleAdmin
}
