package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// serverError hides store failures behind one generic message.
func serverError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "サーバーエラーです"})
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
