package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// markRequest is the body of the attendance marking endpoints. At defaults to
// the server's current time; MarkedBy is the recording warden when the
// caller's session layer supplies it.
type markRequest struct {
	StudentID uuid.UUID  `json:"studentId" binding:"required"`
	At        *time.Time `json:"at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	MarkedBy  *uuid.UUID `json:"markedBy,omitempty"`
}

func (r *markRequest) when() time.Time {
	if r.At != nil {
		return *r.At
	}
	return time.Now()
}

// MarkPresent handles POST /api/attendance/present.
func (h *Handler) MarkPresent(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Student ID is required"})
		return
	}
	record, err := h.store.MarkPresent(c.Request.Context(), req.StudentID, req.when(), req.MarkedBy)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// MarkLeave handles POST /api/attendance/leave, the administrative on-leave
// override. Same per-day uniqueness as marking present.
func (h *Handler) MarkLeave(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Student ID is required"})
		return
	}
	record, err := h.store.MarkLeave(c.Request.Context(), req.StudentID, req.when(), req.Reason, req.MarkedBy)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetUnresolved handles GET /api/wardens/:id/unresolved: the warden's roster
// members still needing a mark today.
func (h *Handler) GetUnresolved(c *gin.Context) {
	wardenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid warden ID"})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.store.ResolveResponsibility(ctx, wardenID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	unresolved, err := h.store.UnresolvedForDay(ctx, resp.BuildingID, resp.Floors, time.Now())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"building":   resp.BuildingName,
		"floors":     resp.Floors,
		"unresolved": unresolved,
	})
}
