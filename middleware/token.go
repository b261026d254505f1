package middleware

import (
	"errors"
	"net/http"

	"filebox/files-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHeader carries the session token on authenticated requests
const TokenHeader = "X-Token"

// NewTokenAuth resolves the X-Token header through the session store
// and sets userID on the context. Anything that doesn't resolve is a
// 401.
func NewTokenAuth(sessions *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Unauthorized",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", userID)
		c.Set("token", token)
		c.Next()
	}
}
