package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const version = "v1.0.0"

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Fagaru API is running",
		"version": version,
	})
}

// Readiness answers 503 while check fails.
func Readiness(check ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Index lists the API entry points.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Fagaru API",
		"version": version,
		"endpoints": gin.H{
			"users":   "/api/v1/users/",
			"weather": "/api/v1/weather/",
			"alerts":  "/api/v1/alerts/",
		},
	})
}
