package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

// Liveness handles GET / and confirms the process is serving
func Liveness(c *gin.Context) {
	c.String(http.StatusOK, "FancyKarma Backend is Live")
}

// Health returns a handler for GET /health that also checks the database
func Health(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
