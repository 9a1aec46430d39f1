package handlers

import (
	"net/http"

	"medibook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
