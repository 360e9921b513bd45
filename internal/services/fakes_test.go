package services

import (
	"fmt"
	"strings"
	"sync"

	"courselab_backend/internal/email"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
)

// In-memory repositories honoring the same error contracts as the GORM
// implementations.

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (f *memUserRepo) add(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[user.ID] = user
	return user
}

func (f *memUserRepo) FindByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *memUserRepo) FindByEmail(emailAddr string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if strings.EqualFold(user.Email, emailAddr) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *memUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[user.ID] = user
	return nil
}

func (f *memUserRepo) Update(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *memUserRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *memUserRepo) SetEntitlement(userID string, hasPaid bool, packageType models.PackageType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.HasPaid = hasPaid
	if packageType != "" {
		user.PackageType = packageType
	}
	return nil
}

func (f *memUserRepo) SetActive(userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func (f *memUserRepo) UpdatePassword(userID, passwordHash string, mustChange bool) error {
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

func (f *memUserRepo) FindStaffByBusiness(businessID string) ([]models.User, error) {
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

func (f *memUserRepo) ClearBusiness(userID string) error {
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

func (f *memUserRepo) FindWithFilter(filter repositories.UserFilter) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *memUserRepo) CountByRole(role models.UserRole) (int64, error) {
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

type memBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*models.Business
	nextID     int

	createErr error // forced failure for Create
}

func newMemBusinessRepo() *memBusinessRepo {
	return &memBusinessRepo{businesses: make(map[string]*models.Business)}
}

func (f *memBusinessRepo) Create(business *models.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if business.ID == "" {
		f.nextID++
		business.ID = fmt.Sprintf("biz-%d", f.nextID)
	}
	f.businesses[business.ID] = business
	return nil
}

func (f *memBusinessRepo) FindByID(id string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if business, ok := f.businesses[id]; ok {
		return business, nil
	}
	return nil, repositories.ErrBusinessNotFound
}

func (f *memBusinessRepo) FindByOwnerID(ownerID string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, business := range f.businesses {
		if business.OwnerID == ownerID {
			return business, nil
		}
	}
	return nil, repositories.ErrBusinessNotFound
}

func (f *memBusinessRepo) Update(business *models.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.businesses[business.ID] = business
	return nil
}

type memResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken
}

func newMemResetTokenRepo() *memResetTokenRepo {
	return &memResetTokenRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *memResetTokenRepo) Create(token *models.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token.Token] = token
	return nil
}

func (f *memResetTokenRepo) FindByToken(token string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, repositories.ErrResetTokenNotFound
}

func (f *memResetTokenRepo) DeleteByToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *memResetTokenRepo) DeleteByUserID(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

func (f *memResetTokenRepo) DeleteExpired() (int64, error) {
	return 0, nil
}

func (f *memResetTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type memRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *memRefreshTokenRepo) Create(token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token.Token] = token
	return nil
}

func (f *memRefreshTokenRepo) FindByToken(token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (f *memRefreshTokenRepo) DeleteByToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *memRefreshTokenRepo) DeleteByUserID(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

func (f *memRefreshTokenRepo) DeleteExpired() (int64, error) {
	return 0, nil
}

func (f *memRefreshTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type memProgressRepo struct {
	mu   sync.Mutex
	rows map[string]*models.CourseProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{rows: make(map[string]*models.CourseProgress)}
}

func progressKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (f *memProgressRepo) FindByUserAndCourse(userID, courseID string) (*models.CourseProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[progressKey(userID, courseID)]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, repositories.ErrProgressNotFound
}

func (f *memProgressRepo) ListByUser(userID string) ([]models.CourseProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CourseProgress
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *memProgressRepo) Upsert(progress *models.CourseProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[progressKey(progress.UserID, progress.CourseID)] = progress
	return nil
}

// memEmailProvider records template sends for assertions.
type memEmailProvider struct {
	mu   sync.Mutex
	sent []string // template names in send order
}

func (f *memEmailProvider) Send(msg *email.Email) error { return nil }

func (f *memEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, templateName)
	return nil
}

func (f *memEmailProvider) Validate() error { return nil }
func (f *memEmailProvider) Close() error    { return nil }

func (f *memEmailProvider) templates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
