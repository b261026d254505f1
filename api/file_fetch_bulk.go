package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (a *API) FileFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Page is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	parentID := c.Query("parentId")

	files, err := a.Files.List(c.Request.Context(), userID, parentID, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, files)
}
