package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/scheduling"
	"bedspace-scheduling-backend/internal/store"
)

type createVoidPeriodRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

type voidPeriodResponse struct {
	ID          uuid.UUID  `json:"id"`
	BedspaceID  uuid.UUID  `json:"bedspaceId"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Reason      string     `json:"reason,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func toVoidPeriodResponse(v *model.VoidPeriod) voidPeriodResponse {
	return voidPeriodResponse{
		ID:          v.ID,
		BedspaceID:  v.BedspaceID,
		StartDate:   v.StartDate.Format(dateLayout),
		EndDate:     v.EndDate.Format(dateLayout),
		Reason:      v.Reason,
		CancelledAt: v.CancelledAt,
	}
}

// PostVoidPeriod handles the
// POST /api/bedspaces/{bedspace_id}/void-periods request. A void period blocks
// the half-open [startDate, endDate) interval and must not touch any existing
// booking's occupied window or another live void.
func (h *Handler) PostVoidPeriod(c *gin.Context) {
	bedspaceID, err := uuid.Parse(c.Param("bedspace_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bedspace ID"})
		return
	}

	var req createVoidPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'startDate'. Use YYYY-MM-DD."})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'endDate'. Use YYYY-MM-DD."})
		return
	}
	if !end.After(start) {
		respondError(c, &scheduling.InvalidRangeError{Field: "endDate", Message: "end date must be after start date"})
		return
	}

	cal, ok := h.calendar(c)
	if !ok {
		return
	}

	void := &model.VoidPeriod{
		ID:         uuid.New(),
		BedspaceID: bedspaceID,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}

	var conflict *scheduling.Conflict
	err = h.store.Transaction(c.Request.Context(), func(tx store.Store) error {
		// A void over [start, end) occupies the same days as a stay arriving
		// on start and departing on the day before end, with no turnaround.
		detector := scheduling.NewDetector(tx)
		found, err := detector.Check(c.Request.Context(), cal, scheduling.ProposedBooking{
			BedspaceID:    bedspaceID,
			ArrivalDate:   start,
			DepartureDate: end.AddDate(0, 0, -1),
		})
		if err != nil {
			return err
		}
		if found != nil {
			conflict = found
			return errConflict
		}
		return tx.CreateVoidPeriod(c.Request.Context(), void)
	})
	if conflict != nil {
		respondConflict(c, conflict)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toVoidPeriodResponse(void))
}

// PutVoidPeriodCancellation handles the
// PUT /api/void-periods/{void_period_id}/cancellations request. Cancelling is
// idempotent in effect but a second cancellation reports not found, matching
// the row-level guard in the store.
func (h *Handler) PutVoidPeriodCancellation(c *gin.Context) {
	voidID, err := uuid.Parse(c.Param("void_period_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid void period ID"})
		return
	}

	if err := h.store.CancelVoidPeriod(c.Request.Context(), voidID, time.Now().UTC()); err != nil {
		respondError(c, err)
		return
	}

	void, err := h.store.VoidPeriodByID(c.Request.Context(), voidID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVoidPeriodResponse(void))
}
