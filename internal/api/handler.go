package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-attendance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// abortWithDomainError translates the store's typed errors into status codes.
// The core never formats user-facing text; the message here is for API
// clients, which render their own.
func abortWithDomainError(c *gin.Context, err error) {
	var partial *store.PartialCreationError
	var malformed *store.MalformedAssignmentError
	var unknown *store.UnknownStudentError
	var capacity *store.CapacityViolationError
	var underflow *store.CapacityUnderflowError
	var unavailable *store.StoreUnavailableError

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &unknown):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &malformed):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &capacity), errors.As(err, &underflow), errors.Is(err, store.ErrRoomNotAvailable):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &partial):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
