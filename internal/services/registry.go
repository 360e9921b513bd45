package services

import "courselab_backend/internal/services/billing"

// ServiceContainer bundles the service layer for handler wiring.
type ServiceContainer struct {
	AuthService     AuthService
	UserService     UserService
	StaffService    StaffService
	ProgressService ProgressService

	CheckoutService billing.CheckoutService
	AccessService   billing.AccessService
	Reconciler      *billing.Reconciler
}
