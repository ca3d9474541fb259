package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bedspace-scheduling-backend/internal/govuk"
	"bedspace-scheduling-backend/internal/person"
	"bedspace-scheduling-backend/internal/scheduling"
	"bedspace-scheduling-backend/internal/store"
	"bedspace-scheduling-backend/internal/workingday"
)

const dateLayout = "2006-01-02"

// errConflict aborts a transaction when conflict detection rejects the
// placement. The detected conflict itself travels out of band.
var errConflict = errors.New("placement conflict detected")

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store                 store.Store
	holidays              govuk.Source
	calculator            *scheduling.AvailabilityCalculator
	search                *scheduling.SearchEngine
	defaultTurnaroundDays int
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, holidays govuk.Source, persons scheduling.PersonDirectory, defaultTurnaroundDays int) *Handler {
	return &Handler{
		store:                 s,
		holidays:              holidays,
		calculator:            scheduling.NewAvailabilityCalculator(s),
		search:                scheduling.NewSearchEngine(s, s, persons),
		defaultTurnaroundDays: defaultTurnaroundDays,
	}
}

// calendar builds a working-day calendar from the current bank-holiday feed.
// A feed failure aborts the request: scheduling without holiday data would
// silently shift every turnaround window.
func (h *Handler) calendar(c *gin.Context) (*workingday.Calendar, bool) {
	holidays, err := h.holidays.GetBankHolidays(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch bank holidays"})
		return nil, false
	}
	return workingday.NewCalendar(holidays), true
}

// respondError maps domain errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *scheduling.ValidationError
	var rerr *scheduling.InvalidRangeError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":       "Validation failed",
			"fieldErrors": verr.Errors,
		})
	case errors.As(err, &rerr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":       "Validation failed",
			"fieldErrors": []scheduling.FieldError{{Field: rerr.Field, Message: rerr.Message}},
		})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, person.ErrUnavailable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Person directory unavailable"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func respondConflict(c *gin.Context, conflict *scheduling.Conflict) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"error":    conflict.Message(),
		"conflict": conflict,
	})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
