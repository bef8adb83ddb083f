package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
)

type stubResolver struct {
	user  *models.User
	token string
}

func (r *stubResolver) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token != r.token {
		return nil, errors.New("invalid token")
	}
	return r.user, nil
}

func newAuthRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(resolver), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router
}

func perform(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthValidToken(t *testing.T) {
	resolver := &stubResolver{
		user:  &models.User{Email: "test@example.com"},
		token: "sometoken",
	}
	router := newAuthRouter(resolver)

	w := perform(router, "Bearer sometoken")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test@example.com")
}

func TestAuthMissingHeader(t *testing.T) {
	router := newAuthRouter(&stubResolver{token: "sometoken"})

	w := perform(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	router := newAuthRouter(&stubResolver{token: "sometoken"})

	// A bare token without the Bearer scheme is rejected.
	w := perform(router, "sometoken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	router := newAuthRouter(&stubResolver{token: "sometoken"})

	w := perform(router, "Bearer wrongtoken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSchemeCaseInsensitive(t *testing.T) {
	resolver := &stubResolver{
		user:  &models.User{Email: "test@example.com"},
		token: "sometoken",
	}
	router := newAuthRouter(resolver)

	w := perform(router, "bearer sometoken")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer sometoken")

	assert.Equal(t, "sometoken", BearerToken(c))

	c.Request.Header.Set("Authorization", "sometoken")
	assert.Empty(t, BearerToken(c))
}
