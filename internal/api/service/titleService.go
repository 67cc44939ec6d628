package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, error)
	Update(ctx context.Context, id int64, apply func(*models.Title), categorySlug *string, genreSlugs *[]string) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	return s.titleRepo.List(ctx, filter, limit, offset)
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "title")
	}
	return title, nil
}

func (s *titleService) Create(ctx context.Context, title *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, error) {
	if err := s.resolveCategory(ctx, title, categorySlug); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, genreSlugs)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, apperr.FromDB(err, "title")
	}
	if len(genres) > 0 {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	// Fetch back with rating and associations for the response
	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, apply func(*models.Title), categorySlug *string, genreSlugs *[]string) (*models.Title, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "title")
	}

	apply(title)
	if categorySlug != nil {
		if err := s.resolveCategory(ctx, title, categorySlug); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, apperr.FromDB(err, "title")
	}

	if genreSlugs != nil {
		genres, err := s.resolveGenres(ctx, *genreSlugs)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return apperr.FromDB(err, "title")
	}
	return nil
}

// resolveCategory maps a category slug onto the title. An unknown slug is a
// validation failure on the category field, not a 404: the title endpoint
// is the resource here, the slug just a field value.
func (s *titleService) resolveCategory(ctx context.Context, title *models.Title, slug *string) error {
	if slug == nil {
		return nil
	}
	category, err := s.categoryRepo.FindBySlug(ctx, *slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("validation failed", apperr.FieldError{
				Field:   "category",
				Message: "category with slug " + *slug + " does not exist",
			})
		}
		return err
	}
	title.CategoryID = &category.ID
	title.Category = category
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(uniqueStrings(slugs)) {
		return nil, apperr.Validation("validation failed", apperr.FieldError{
			Field:   "genre",
			Message: "one or more genre slugs do not exist",
		})
	}
	return genres, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
