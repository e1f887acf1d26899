package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheck reports whether the database answers a ping
func HealthCheck(db healthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(c.Request.Context()); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}
