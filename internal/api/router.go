package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-attendance-backend/config"
	"hostel-attendance-backend/internal/mw"
	"hostel-attendance-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	// Aggregate reads may be cached; everything touching the ledger is not.
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Building management (admin UI)
		api.POST("/buildings", handler.CreateBuilding)
		api.GET("/buildings", caching, handler.ListBuildings)
		api.PATCH("/buildings/:id", handler.RenameBuilding)
		api.DELETE("/buildings/:id", handler.DeleteBuilding)
		api.POST("/buildings/batch-delete", handler.DeleteBuildings)

		// Bed counters (external room-assignment flow)
		api.POST("/rooms/:id/occupy", handler.OccupyBed)
		api.POST("/rooms/:id/vacate", handler.VacateBed)

		// Warden attendance screen
		api.GET("/wardens/:id/unresolved", handler.GetUnresolved)
		api.POST("/attendance/present", handler.MarkPresent)
		api.POST("/attendance/leave", handler.MarkLeave)

		// Dashboards
		api.GET("/buildings/:id/stats", caching, handler.GetBuildingStats)
		api.GET("/students/:id/history", handler.GetHistory)
		api.GET("/students/:id/stats", handler.GetStudentStats)
	}

	return r
}
