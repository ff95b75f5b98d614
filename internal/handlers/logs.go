package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nate0911/FancyKarma-Backend/internal/models"
	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

// LogsHandler serves the admin verification-log API
type LogsHandler struct {
	store *store.Store
}

// NewLogsHandler creates a new verification-log handler
func NewLogsHandler(s *store.Store) *LogsHandler {
	return &LogsHandler{store: s}
}

// ListLogs retrieves verification logs with pagination and filtering (JSON API)
func (h *LogsHandler) ListLogs(c *gin.Context) {
	// Parse pagination parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	params := store.NewPaginationParams(page, pageSize, c.Query("search"))

	// Parse filters
	filters := store.VerificationLogFilters{
		Status:   models.VerdictStatus(c.Query("status")),
		Username: c.Query("username"),
	}

	// Parse time range
	if startTimeStr := c.Query("start_time"); startTimeStr != "" {
		if t, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			filters.StartTime = t
		}
	}
	if endTimeStr := c.Query("end_time"); endTimeStr != "" {
		if t, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			filters.EndTime = t
		}
	}

	logs, pagination, err := h.store.GetVerificationLogsPaginated(params, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve verification logs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// LogStats returns verdict counts over the requested window (default 24h)
func (h *LogsHandler) LogStats(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours < 1 {
		hours = 24
	}

	endTime := time.Now()
	startTime := endTime.Add(-time.Duration(hours) * time.Hour)

	stats, err := h.store.GetVerificationLogStats(startTime, endTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute verification log stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"start_time": startTime,
		"end_time":   endTime,
	})
}
