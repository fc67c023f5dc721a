package service

import (
	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(page, limit int) ([]model.User, int64, error) {
	return s.Repo.List(page, limit)
}

type UpdateUserRequest struct {
	Name       *string         `json:"name"`
	Role       *model.UserRole `json:"role"`
	Department *string         `json:"department"`
	IsDisabled *bool           `json:"isDisabled"`
}

func (s *UserService) UpdateUser(id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.IsDisabled != nil {
		user.IsDisabled = *req.IsDisabled
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
