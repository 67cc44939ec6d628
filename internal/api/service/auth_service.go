package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mail"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

type AuthService interface {
	// Signup creates (or reuses) an unconfirmed user and emails a
	// confirmation code. Returns the user whose identity was echoed back.
	Signup(ctx context.Context, email, username string) (*models.User, error)
	// IssueToken exchanges a valid confirmation code for a bearer token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	// Authenticate resolves a bearer token to the current user record.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	sender    mail.Sender
	codes     *ConfirmationCodes
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sender mail.Sender, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		sender:    sender,
		codes:     NewConfirmationCodes(cfg.JWTSecret, cfg.ConfirmationTTL),
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
	}
}

// Signup implements the Unregistered -> PendingConfirmation transition.
// Submitting the same email+username pair again is an idempotent resend;
// half-matching an existing user is a conflict.
func (s *authService) Signup(ctx context.Context, email, username string) (*models.User, error) {
	existing, err := s.userRepo.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user *models.User
	switch {
	case existing != nil && existing.Email == email && existing.Username != username:
		return nil, apperr.Conflict("email already in use")
	case existing != nil && existing.Username == username && existing.Email != email:
		return nil, apperr.Conflict("username already in use")
	case existing != nil:
		user = existing
	default:
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		// A concurrent signup for the same identity loses the race on the
		// unique indexes and surfaces as a conflict, not a crash.
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, apperr.FromDB(err, "user")
		}
	}

	code := s.codes.Generate(user)

	// Delivery failure is a hard failure for the caller; nothing retries.
	if err := s.sender.SendConfirmationCode(user.Email, user.Username, code); err != nil {
		return nil, err
	}

	return user, nil
}

// IssueToken implements the PendingConfirmation -> Confirmed transition.
func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", apperr.FromDB(err, "user")
	}

	if !s.codes.Verify(user, code) {
		return "", apperr.InvalidCredential("invalid confirmation code")
	}

	// Consume the code: bumping last_login changes the derived state, so
	// the same code can never be replayed.
	now := time.Now()
	user.LastLogin = &now
	user.Confirmed = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Authenticate validates the JWT and loads the fresh user record, so role
// changes apply to the very next request rather than at token refresh.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	// JSON numbers decode as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, int64(rawID))
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
