package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	BillingHandler  *BillingHandler
	StaffHandler    *StaffHandler
	ProgressHandler *ProgressHandler
	UserHandler     *UserHandler
}
