package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"filebox/files-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserConnect exchanges Basic credentials for a session token. Every
// failure mode answers the same 401 so credentials can't be probed.
func (a *API) UserConnect(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	unauthorized := func() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Basic ") {
		unauthorized()
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		unauthorized()
		return
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" || password == "" {
		unauthorized()
		return
	}

	var user model.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			unauthorized()
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err = a.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		unauthorized()
		return
	}

	token, err := a.Sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
