package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/interfaces/http/dto"
)

// abortWithError stops the chain with the standard error body
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorBody(code, message, c.GetString(logger.GinRequestIDKey)))
}
