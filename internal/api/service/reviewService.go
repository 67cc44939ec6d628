package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error)
	Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Update(ctx context.Context, titleID, reviewID int64, actor *models.User, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64, actor *models.User) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// canModify: the author may change their own review, moderators and admins
// may change anyone's.
func canModify(actor *models.User, authorID int64) bool {
	return actor.ID == authorID || actor.IsModerator() || actor.IsAdmin()
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, 0, apperr.FromDB(err, "title")
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, limit, offset)
}

func (s *reviewService) Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error) {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, apperr.FromDB(err, "title")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     text,
		Score:    score,
	}

	// The (title, author) unique index is the arbiter for double reviews,
	// concurrent submissions included.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actor *models.User, text *string, score *int) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, apperr.FromDB(err, "review")
	}

	if !canModify(actor, review.AuthorID) {
		return nil, apperr.Forbidden("you don't have permission to modify this review")
	}

	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actor *models.User) error {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return apperr.FromDB(err, "review")
	}

	if !canModify(actor, review.AuthorID) {
		return apperr.Forbidden("you don't have permission to delete this review")
	}

	return s.reviewRepo.Delete(ctx, review)
}
