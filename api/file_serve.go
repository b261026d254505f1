package api

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"filebox/files-api/middleware"
	"filebox/files-api/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileServe returns the raw content of an entity or one of its
// thumbnails. A token is optional here: public entities are readable by
// anyone, and a bad token simply degrades to an anonymous read.
func (a *API) FileServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	var requesterID string
	if token := c.GetHeader(middleware.TokenHeader); token != "" {
		userID, err := a.Sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			requesterID = userID
		case errors.Is(err, service.ErrUnauthorized):
			// Stale token, the read proceeds anonymously
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session token", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	data, file, err := a.Files.ReadData(c.Request.Context(), fileID, requesterID, c.Query("size"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(file.Name))
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	c.Data(http.StatusOK, contentType, data)
}
