package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error)
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, search, limit, offset)
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return apperr.FromDB(err, "category")
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		return apperr.FromDB(err, "category")
	}
	return nil
}
