package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"redis": a.Sessions.Alive(c.Request.Context()),
		"db":    a.Files.Alive(c.Request.Context()),
	})
}
