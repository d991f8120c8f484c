package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home godoc
// @Summary Service banner
// @Description Returns the service name
// @Tags home
// @Produce plain
// @Success 200 {string} string "haasib"
// @Router / [get]
func home(c *gin.Context) {
	c.String(http.StatusOK, "haasib")
}
