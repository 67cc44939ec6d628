package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type GenreService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error)
	Create(ctx context.Context, genre *models.Genre) error
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error) {
	return s.genreRepo.List(ctx, search, limit, offset)
}

func (s *genreService) Create(ctx context.Context, genre *models.Genre) error {
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return apperr.FromDB(err, "genre")
	}
	return nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		return apperr.FromDB(err, "genre")
	}
	return nil
}
