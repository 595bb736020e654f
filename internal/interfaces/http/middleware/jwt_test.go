package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/infrastructure/auth"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, userID int64) string {
	t.Helper()
	token, err := svc.GenerateToken(userID, "shopper01")
	require.NoError(t, err)
	return token.Token
}

func TestRequireAuth(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)

	router := gin.New()
	router.Use(RequestID(), RequireAuth(jwtService, zap.NewNop()))
	router.GET("/user/", func(c *gin.Context) {
		assert.Equal(t, int64(42), logger.GetUserID(c.Request.Context()))
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"bearer token", "Bearer " + issueToken(t, jwtService, 42), http.StatusOK, `"user_id":42`},
		{"JWT scheme", "JWT " + issueToken(t, jwtService, 42), http.StatusOK, `"user_id":42`},
		{"missing header", "", http.StatusUnauthorized, `"code":"UNAUTHORIZED"`},
		{"unknown scheme", "Basic abc", http.StatusUnauthorized, `"code":"TOKEN_INVALID"`},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, `"code":"TOKEN_INVALID"`},
		{"expired token", "Bearer " + issueToken(t, newTestJWTService(-time.Minute), 42), http.StatusUnauthorized, `"code":"TOKEN_EXPIRED"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user/", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)

	router := gin.New()
	router.Use(OptionalAuth(jwtService))
	router.GET("/cart/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	t.Run("valid token identifies the user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+issueToken(t, jwtService, 7))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
	})

	t.Run("stale token falls back to anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+issueToken(t, newTestJWTService(-time.Minute), 7))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":0}`, rec.Body.String())
	})

	t.Run("no header is anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/", nil))
		assert.JSONEq(t, `{"user_id":0}`, rec.Body.String())
	})
}
