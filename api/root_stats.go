package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) StatsShow(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	users, err := a.Stats.NbUsers(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count users", zap.Error(err))
		return
	}

	files, err := a.Stats.NbFiles(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count files", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"files": files,
	})
}
