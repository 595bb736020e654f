package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/infrastructure/auth"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = logger.GinUserIDKey
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	// JWTPrefix is the scheme the storefront clients send
	JWTPrefix = "JWT "
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid access token
func RequireAuth(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			handleAuthError(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, log, err, "Token validation failed")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present.
// A missing, expired or malformed token leaves the request anonymous.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			logger.FromGin(c).Debug("Ignoring invalid token on optional auth route", zap.Error(err))
			c.Next()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	var token string
	switch {
	case strings.HasPrefix(header, BearerPrefix):
		token = strings.TrimPrefix(header, BearerPrefix)
	case strings.HasPrefix(header, JWTPrefix):
		token = strings.TrimPrefix(header, JWTPrefix)
	default:
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)

	// Also set in request context for logger
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, log *zap.Logger, err error, message string) {
	if log != nil {
		log.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := dto.ErrCodeUnauthorized
	msg := "Authentication credentials were not provided"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		msg = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrMissingUserID):
		code = dto.ErrCodeTokenInvalid
		msg = "Invalid token"
	case errors.Is(err, auth.ErrInvalidToken) && c.GetHeader(AuthHeaderKey) != "":
		code = dto.ErrCodeTokenInvalid
		msg = "Invalid token"
	}

	abortWithError(c, http.StatusUnauthorized, code, msg)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user id, or 0 for anonymous requests
func GetJWTUserID(c *gin.Context) int64 {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(int64); ok {
			return id
		}
	}
	return 0
}
