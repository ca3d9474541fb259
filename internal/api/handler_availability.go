package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/scheduling"
)

// GetPremisesAvailability handles the
// GET /api/premises/{premises_id}/availability request. It returns one entry
// per day of the half-open [start_date, end_date) range, with no gaps.
func (h *Handler) GetPremisesAvailability(c *gin.Context) {
	premisesID, err := uuid.Parse(c.Param("premises_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid premises ID"})
		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start_date'. Use YYYY-MM-DD."})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end_date'. Use YYYY-MM-DD."})
		return
	}

	// Reject requests for premises that do not exist rather than returning an
	// all-zero breakdown.
	if _, err := h.store.PremisesByID(c.Request.Context(), premisesID); err != nil {
		respondError(c, err)
		return
	}

	byDay, err := h.calculator.ForPremises(c.Request.Context(), premisesID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	days := make([]scheduling.DayAvailability, 0, len(byDay))
	for _, entry := range byDay {
		days = append(days, entry)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	c.JSON(http.StatusOK, gin.H{
		"premisesId": premisesID,
		"days":       days,
	})
}
