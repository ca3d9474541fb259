package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"bedspace-scheduling-backend/config"
	"bedspace-scheduling-backend/internal/govuk"
	"bedspace-scheduling-backend/internal/mw"
	"bedspace-scheduling-backend/internal/scheduling"
	"bedspace-scheduling-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, holidays govuk.Source, persons scheduling.PersonDirectory) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, holidays, persons, cfg.Scheduling.DefaultTurnaroundDays)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Availability is a pure read over slow-moving data; it is the only
		// cached route. Writes and searches always hit the store.
		api.GET("/premises/:premises_id/availability", caching, handler.GetPremisesAvailability)

		api.POST("/bedspace-search", handler.PostBedspaceSearch)

		api.POST("/bookings", handler.PostBooking)
		api.GET("/bookings/:booking_id", handler.GetBooking)
		api.POST("/bookings/:booking_id/extensions", handler.PostBookingExtension)

		api.POST("/bedspaces/:bedspace_id/void-periods", handler.PostVoidPeriod)
		api.PUT("/void-periods/:void_period_id/cancellations", handler.PutVoidPeriodCancellation)
	}

	return r
}
