package api

import (
	"net/http"

	"filebox/files-api/model"
	"filebox/files-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var req service.CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	file, err := a.Files.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if file.Type == model.TypeImage {
		err = a.FileQueue.Enqueue(c.Request.Context(), &service.Job{
			FileID: file.ID,
			UserID: userID,
		})
		if err != nil {
			// The entity exists either way. Thumbnails can be
			// regenerated, so the upload still succeeds.
			zap.L().Error("Failed to enqueue thumbnail job",
				zap.Error(err),
				zap.String("fileID", file.ID),
				zap.String("requestID", requestID))
		}
	}

	c.JSON(http.StatusCreated, file)
}
