package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSender mocks the mail.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendConfirmationCode(email, username, code string) error {
	args := m.Called(email, username, code)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-test-secret-test-sec",
		AccessTokenTTL:  15 * time.Minute,
		ConfirmationTTL: 24 * time.Hour,
	}
}

func TestSignup_NewUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "new@example.com", "newuser").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("SendConfirmationCode", "new@example.com", "newuser", mock.AnythingOfType("string")).Return(nil)

	user, err := authService.Signup(context.Background(), "new@example.com", "newuser")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.Confirmed)
	mockUserRepo.AssertExpectations(t)
	mockSender.AssertExpectations(t)
}

func TestSignup_IdempotentResend(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	existing := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "reader@example.com", "reader").
		Return(existing, nil)
	mockSender.On("SendConfirmationCode", "reader@example.com", "reader", mock.AnythingOfType("string")).Return(nil)

	user, err := authService.Signup(context.Background(), "reader@example.com", "reader")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSender.AssertExpectations(t)
}

func TestSignup_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	existing := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "reader@example.com", "othername").
		Return(existing, nil)

	user, err := authService.Signup(context.Background(), "reader@example.com", "othername")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Nil(t, user)
	mockSender.AssertNotCalled(t, "SendConfirmationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_UsernameTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	existing := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "other@example.com", "reader").
		Return(existing, nil)

	user, err := authService.Signup(context.Background(), "other@example.com", "reader")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Nil(t, user)
}

func TestSignup_SendFailure(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "new@example.com", "newuser").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("SendConfirmationCode", "new@example.com", "newuser", mock.AnythingOfType("string")).
		Return(errors.New("smtp unreachable"))

	user, err := authService.Signup(context.Background(), "new@example.com", "newuser")

	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestSignup_CreateRace(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	mockUserRepo.On("FindByEmailOrUsername", mock.Anything, "new@example.com", "newuser").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(gorm.ErrDuplicatedKey)

	user, err := authService.Signup(context.Background(), "new@example.com", "newuser")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Nil(t, user)
}

func TestIssueToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, mockSender, cfg).(*authService)

	user := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	code := authService.codes.Generate(user)

	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	token, err := authService.IssueToken(context.Background(), "reader", code)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.Confirmed)
	assert.NotNil(t, user.LastLogin)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["user_id"])
	mockUserRepo.AssertExpectations(t)
}

func TestIssueToken_UnknownUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.IssueToken(context.Background(), "ghost", "whatever")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, token)
}

func TestIssueToken_BadCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	user := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "reader", "not-a-code")

	assert.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCredential, apperr.KindOf(err))
	assert.Empty(t, token)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestIssueToken_ReplayedCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig()).(*authService)

	user := &models.User{ID: 7, Username: "reader", Email: "reader@example.com"}
	code := authService.codes.Generate(user)

	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	first, err := authService.IssueToken(context.Background(), "reader", code)
	assert.NoError(t, err)
	assert.NotEmpty(t, first)

	// The exchange consumed the code
	second, err := authService.IssueToken(context.Background(), "reader", code)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCredential, apperr.KindOf(err))
	assert.Empty(t, second)
}

func TestAuthenticate_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig()).(*authService)

	user := &models.User{ID: 7, Username: "reader", Role: models.RoleModerator}
	token, err := authService.generateAccessToken(user)
	assert.NoError(t, err)

	mockUserRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

	got, err := authService.Authenticate(context.Background(), token)

	assert.NoError(t, err)
	assert.Equal(t, user, got)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthenticate_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	got, err := authService.Authenticate(context.Background(), "not.a.token")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, got)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig()).(*authService)

	token, err := authService.generateAccessToken(&models.User{ID: 99})
	assert.NoError(t, err)

	mockUserRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	got, err := authService.Authenticate(context.Background(), token)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, got)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := NewAuthService(mockUserRepo, mockSender, testConfig())

	claims := jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	got, err := authService.Authenticate(context.Background(), token)

	assert.Error(t, err)
	assert.Nil(t, got)
}
