package api

import (
	"errors"
	"net/http"

	"filebox/files-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps the service error taxonomy onto status codes
// without losing the message. Anything unmapped is a logged 500.
func respondServiceError(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     verr.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Forbidden",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
