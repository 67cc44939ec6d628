package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error)
	Create(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User, text string) (*models.Comment, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.reviewRepo.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, 0, apperr.FromDB(err, "review")
	}
	return s.commentRepo.ListByReview(ctx, reviewID, limit, offset)
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	if _, err := s.reviewRepo.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, apperr.FromDB(err, "review")
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Text:     text,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	return comment, nil
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.reviewRepo.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User, text string) (*models.Comment, error) {
	comment, err := s.GetByID(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, comment.AuthorID) {
		return nil, apperr.Forbidden("you don't have permission to modify this comment")
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User) error {
	comment, err := s.GetByID(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(actor, comment.AuthorID) {
		return apperr.Forbidden("you don't have permission to delete this comment")
	}

	return s.commentRepo.Delete(ctx, comment)
}
