package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type UserService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, limit, offset)
}

// Create is the admin path: the record starts confirmed and the role is
// whatever the admin set.
func (s *userService) Create(ctx context.Context, user *models.User) error {
	user.Confirmed = true
	if err := s.userRepo.Create(ctx, user); err != nil {
		return apperr.FromDB(err, "user")
	}
	return nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *models.User) error {
	// Renaming onto a taken username/email is a conflict, same as create
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperr.FromDB(err, "user")
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return apperr.FromDB(err, "user")
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return apperr.FromDB(err, "user")
	}
	return nil
}
