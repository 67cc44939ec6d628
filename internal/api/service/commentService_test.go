package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reviewID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func TestCreateComment_ReviewMissing(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	commentService := NewCommentService(mockCommentRepo, mockReviewRepo)

	mockReviewRepo.On("FindByID", mock.Anything, int64(1), int64(5)).Return(nil, gorm.ErrRecordNotFound)

	author := &models.User{ID: 10, Role: models.RoleUser}
	comment, err := commentService.Create(context.Background(), 1, 5, author, "nice point")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Nil(t, comment)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_Success(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	commentService := NewCommentService(mockCommentRepo, mockReviewRepo)

	mockReviewRepo.On("FindByID", mock.Anything, int64(1), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 1}, nil)
	mockCommentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	author := &models.User{ID: 10, Role: models.RoleUser}
	comment, err := commentService.Create(context.Background(), 1, 5, author, "nice point")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), comment.ReviewID)
	assert.Equal(t, int64(10), comment.AuthorID)
	mockCommentRepo.AssertExpectations(t)
}

func TestUpdateComment_StrangerForbidden(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	commentService := NewCommentService(mockCommentRepo, mockReviewRepo)

	mockReviewRepo.On("FindByID", mock.Anything, int64(1), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 1}, nil)
	mockCommentRepo.On("FindByID", mock.Anything, int64(5), int64(3)).
		Return(&models.Comment{ID: 3, ReviewID: 5, AuthorID: 10, Text: "old"}, nil)

	stranger := &models.User{ID: 99, Role: models.RoleUser}
	comment, err := commentService.Update(context.Background(), 1, 5, 3, stranger, "hijack")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	assert.Nil(t, comment)
	mockCommentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateComment_Author(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	commentService := NewCommentService(mockCommentRepo, mockReviewRepo)

	mockReviewRepo.On("FindByID", mock.Anything, int64(1), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 1}, nil)
	mockCommentRepo.On("FindByID", mock.Anything, int64(5), int64(3)).
		Return(&models.Comment{ID: 3, ReviewID: 5, AuthorID: 10, Text: "old"}, nil)
	mockCommentRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	author := &models.User{ID: 10, Role: models.RoleUser}
	comment, err := commentService.Update(context.Background(), 1, 5, 3, author, "edited")

	assert.NoError(t, err)
	assert.Equal(t, "edited", comment.Text)
	mockCommentRepo.AssertExpectations(t)
}

func TestDeleteComment_Admin(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	commentService := NewCommentService(mockCommentRepo, mockReviewRepo)

	stored := &models.Comment{ID: 3, ReviewID: 5, AuthorID: 10}
	mockReviewRepo.On("FindByID", mock.Anything, int64(1), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 1}, nil)
	mockCommentRepo.On("FindByID", mock.Anything, int64(5), int64(3)).Return(stored, nil)
	mockCommentRepo.On("Delete", mock.Anything, stored).Return(nil)

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	err := commentService.Delete(context.Background(), 1, 5, 3, admin)

	assert.NoError(t, err)
	mockCommentRepo.AssertExpectations(t)
}
