package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/scheduling"
)

type searchRequest struct {
	ProbationDeliveryUnitIDs []uuid.UUID                      `json:"probationDeliveryUnitIds"`
	StartDate                string                           `json:"startDate"`
	DurationDays             int                              `json:"durationDays"`
	PremisesFilters          scheduling.CharacteristicFilters `json:"premisesFilters"`
	RoomFilters              scheduling.CharacteristicFilters `json:"roomFilters"`
}

type searchResult struct {
	BedspaceID   uuid.UUID           `json:"bedspaceId"`
	Reference    string              `json:"reference"`
	RoomID       uuid.UUID           `json:"roomId"`
	RoomName     string              `json:"roomName"`
	PremisesID   uuid.UUID           `json:"premisesId"`
	PremisesName string              `json:"premisesName"`
	Overlaps     []scheduling.Overlap `json:"overlaps"`
}

// PostBedspaceSearch handles the POST /api/bedspace-search request.
func (h *Handler) PostBedspaceSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'startDate'. Use YYYY-MM-DD."})
		return
	}

	cal, ok := h.calendar(c)
	if !ok {
		return
	}

	candidates, err := h.search.Search(c.Request.Context(), cal, scheduling.SearchCriteria{
		ProbationDeliveryUnitIDs: req.ProbationDeliveryUnitIDs,
		StartDate:                startDate,
		DurationDays:             req.DurationDays,
		PremisesFilters:          req.PremisesFilters,
		RoomFilters:              req.RoomFilters,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]searchResult, 0, len(candidates))
	for i := range candidates {
		b := &candidates[i].Bedspace
		overlaps := candidates[i].Overlaps
		if overlaps == nil {
			overlaps = []scheduling.Overlap{}
		}
		results = append(results, searchResult{
			BedspaceID:   b.ID,
			Reference:    b.Reference,
			RoomID:       b.RoomID,
			RoomName:     b.Room.Name,
			PremisesID:   b.Room.PremisesID,
			PremisesName: b.Room.Premises.Name,
			Overlaps:     overlaps,
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
