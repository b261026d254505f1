package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) FilePublish(c *gin.Context) {
	a.setPublic(c, true)
}

func (a *API) FileUnpublish(c *gin.Context) {
	a.setPublic(c, false)
}

func (a *API) setPublic(c *gin.Context, public bool) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	file, err := a.Files.SetPublic(c.Request.Context(), fileID, userID, public)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}
