package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *AuthMiddleware) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := NewAuthMiddleware(config.AuthConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: 1,
	}, logrus.New())

	r := gin.New()
	r.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user_address")})
	})
	return r, auth
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
}

func TestRequireAuthBadFormat(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestRequireAuthValidToken(t *testing.T) {
	r, auth := newTestRouter(t)

	token, err := auth.IssueToken("0x742d35Cc6634C0532925a3b0F26750C66d78EB66", 7001)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0x742d35Cc6634C0532925a3b0F26750C66d78EB66")
}

func TestRequireAuthWrongSecret(t *testing.T) {
	r, _ := newTestRouter(t)

	other := NewAuthMiddleware(config.AuthConfig{
		JWTSecret:   "different-secret",
		TokenExpiry: 1,
	}, logrus.New())
	token, err := other.IssueToken("0x742d35Cc6634C0532925a3b0F26750C66d78EB66", 7001)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}
