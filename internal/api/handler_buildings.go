package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostel-attendance-backend/internal/store"
)

// CreateBuilding handles POST /api/buildings.
func (h *Handler) CreateBuilding(c *gin.Context) {
	var spec store.BuildingSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid building spec"})
		return
	}

	building, err := h.store.CreateBuilding(c.Request.Context(), spec)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, building)
}

// ListBuildings handles GET /api/buildings: every building with its
// aggregated occupancy counters.
func (h *Handler) ListBuildings(c *gin.Context) {
	buildings, err := h.store.ListBuildingsWithOccupancy(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// RenameBuilding handles PATCH /api/buildings/:id.
func (h *Handler) RenameBuilding(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Building name is required"})
		return
	}
	if err := h.store.RenameBuilding(c.Request.Context(), id, body.Name); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteBuilding handles DELETE /api/buildings/:id.
func (h *Handler) DeleteBuilding(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteBuilding(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteBuildings handles POST /api/buildings/batch-delete.
func (h *Handler) DeleteBuildings(c *gin.Context) {
	var body struct {
		IDs []int64 `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Building IDs are required"})
		return
	}
	if err := h.store.DeleteBuildings(c.Request.Context(), body.IDs); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OccupyBed handles POST /api/rooms/:id/occupy. Called by the external
// room-assignment flow when a student moves in; the capacity ledger only
// enforces the bound.
func (h *Handler) OccupyBed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.OccupyBed(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VacateBed handles POST /api/rooms/:id/vacate.
func (h *Handler) VacateBed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.VacateBed(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}
