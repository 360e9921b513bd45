package billing

import (
	"strings"
	"sync"

	"courselab_backend/internal/email"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
)

// In-memory repositories for service tests. They honor the same error
// contracts as the GORM implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	entitlementCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrUserAlreadyExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetEntitlement(userID string, hasPaid bool, packageType models.PackageType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	f.entitlementCalls++
	user.HasPaid = hasPaid
	if packageType != "" {
		user.PackageType = packageType
	}
	return nil
}

func (f *fakeUserRepo) SetActive(userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func (f *fakeUserRepo) UpdatePassword(userID, passwordHash string, mustChange bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChange
	return nil
}

func (f *fakeUserRepo) FindStaffByBusiness(businessID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var staff []models.User
	for _, user := range f.users {
		if user.BusinessID != nil && *user.BusinessID == businessID {
			staff = append(staff, *user)
		}
	}
	return staff, nil
}

func (f *fakeUserRepo) ClearBusiness(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.BusinessID = nil
	user.IsActive = false
	return nil
}

func (f *fakeUserRepo) FindWithFilter(filter repositories.UserFilter) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, user := range f.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (f *fakePaymentRepo) Create(payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.payments {
		if existing.ProviderID == payment.ProviderID {
			return repositories.ErrDuplicatePayment
		}
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakePaymentRepo) FindByProviderID(providerID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.ProviderID == providerID {
			return payment, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (f *fakePaymentRepo) LatestByPurpose(userID string, purpose models.PaymentPurpose) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Appended in insertion order, so the latest match wins.
	for i := len(f.payments) - 1; i >= 0; i-- {
		if f.payments[i].UserID == userID && f.payments[i].Purpose == purpose {
			return f.payments[i], nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (f *fakePaymentRepo) ListByUser(userID string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, payment := range f.payments {
		if payment.UserID == userID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*models.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[string]*models.Business)}
}

func (f *fakeBusinessRepo) add(business *models.Business) *models.Business {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.businesses[business.ID] = business
	return business
}

func (f *fakeBusinessRepo) Create(business *models.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.businesses[business.ID] = business
	return nil
}

func (f *fakeBusinessRepo) FindByID(id string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if business, ok := f.businesses[id]; ok {
		return business, nil
	}
	return nil, repositories.ErrBusinessNotFound
}

func (f *fakeBusinessRepo) FindByOwnerID(ownerID string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, business := range f.businesses {
		if business.OwnerID == ownerID {
			return business, nil
		}
	}
	return nil, repositories.ErrBusinessNotFound
}

func (f *fakeBusinessRepo) Update(business *models.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.businesses[business.ID] = business
	return nil
}

// fakeEmailProvider records template sends for assertions.
type fakeEmailProvider struct {
	mu   sync.Mutex
	sent []string // template names in send order
}

func (f *fakeEmailProvider) Send(msg *email.Email) error { return nil }

func (f *fakeEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, templateName)
	return nil
}

func (f *fakeEmailProvider) Validate() error { return nil }
func (f *fakeEmailProvider) Close() error    { return nil }

func (f *fakeEmailProvider) templates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
