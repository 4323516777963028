package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/database"
)

// HealthCheck godoc
// @Summary      Health check
// @Description  Reports process liveness and database connectivity
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /health [get]
func HealthCheck(c *gin.Context) {
	dbStatus := "connected"
	status := http.StatusOK
	if !database.IsConnected() {
		dbStatus = "disconnected"
	}

	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
