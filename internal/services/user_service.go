package services

import (
	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"
)

// UserService is the admin surface over user accounts.
type UserService interface {
	GetUser(id string) (*dto.UserResponse, error)
	ListUsers(filter repositories.UserFilter) ([]dto.UserResponse, int64, error)

	// SetActive soft-deletes or restores an account. Rows are never
	// physically deleted, the ledger keeps pointing at them.
	SetActive(id string, active bool) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetUser(id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *UserServiceImpl) ListUsers(filter repositories.UserFilter) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.NewUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *UserServiceImpl) SetActive(id string, active bool) error {
	err := s.userRepo.SetActive(id, active)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
