package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/api/models"
)

type stubAuthService struct {
	user *models.User
	err  error
}

func (s *stubAuthService) Signup(context.Context, string, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) IssueToken(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*models.User, error) {
	return s.user, s.err
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func protectedRouter(stub *stubAuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(stub)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := protectedRouter(&stubAuthService{})

	w := request(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_BadFormat(t *testing.T) {
	router := protectedRouter(&stubAuthService{})

	assert.Equal(t, http.StatusUnauthorized, request(router, "Basic dXNlcg==").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer").Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := protectedRouter(&stubAuthService{err: errors.New("invalid token")})

	w := request(router, "Bearer bad-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_LoadsUser(t *testing.T) {
	user := &models.User{ID: 7, Username: "reader", Role: models.RoleUser}
	router := protectedRouter(&stubAuthService{user: user})

	w := request(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader")
}

func TestRequireAdmin_UserForbidden(t *testing.T) {
	user := &models.User{ID: 7, Username: "reader", Role: models.RoleUser}
	router := protectedRouter(&stubAuthService{user: user}, RequireAdmin())

	w := request(router, "Bearer good-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_ModeratorForbidden(t *testing.T) {
	user := &models.User{ID: 7, Username: "mod", Role: models.RoleModerator}
	router := protectedRouter(&stubAuthService{user: user}, RequireAdmin())

	w := request(router, "Bearer good-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	user := &models.User{ID: 7, Username: "boss", Role: models.RoleAdmin}
	router := protectedRouter(&stubAuthService{user: user}, RequireAdmin())

	w := request(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_SuperuserAllowed(t *testing.T) {
	user := &models.User{ID: 7, Username: "root", Role: models.RoleUser, IsSuperuser: true}
	router := protectedRouter(&stubAuthService{user: user}, RequireAdmin())

	w := request(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentUser_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/open", func(c *gin.Context) {
		assert.Nil(t, CurrentUser(c))
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
