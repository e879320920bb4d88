package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// GetHistory handles GET /api/students/:id/history?days=30.
func (h *Handler) GetHistory(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
	}

	records, err := h.store.History(c.Request.Context(), studentID, time.Now(), days)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetStudentStats handles GET /api/students/:id/stats?from=&to=.
func (h *Handler) GetStudentStats(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	stats, err := h.store.StudentStats(c.Request.Context(), studentID, from, to)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetBuildingStats handles GET /api/buildings/:id/stats?from=&to=.
func (h *Handler) GetBuildingStats(c *gin.Context) {
	buildingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	stats, err := h.store.BuildingStats(c.Request.Context(), buildingID, from, to)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// dateRange reads from/to query parameters, both defaulting to today.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from, to := now, now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date. Use YYYY-MM-DD."})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date. Use YYYY-MM-DD."})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if to.Before(from) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "'to' must not precede 'from'"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
