package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/scheduling"
	"bedspace-scheduling-backend/internal/store"
)

type createBookingRequest struct {
	BedspaceID     uuid.UUID `json:"bedspaceId" binding:"required"`
	PersonRef      string    `json:"personRef" binding:"required"`
	ArrivalDate    string    `json:"arrivalDate" binding:"required"`
	DepartureDate  string    `json:"departureDate" binding:"required"`
	TurnaroundDays *int      `json:"turnaroundDays"`
}

type bookingResponse struct {
	ID             uuid.UUID           `json:"id"`
	BedspaceID     uuid.UUID           `json:"bedspaceId"`
	PersonRef      string              `json:"personRef"`
	ArrivalDate    string              `json:"arrivalDate"`
	DepartureDate  string              `json:"departureDate"`
	TurnaroundDays int                 `json:"turnaroundDays"`
	Status         model.BookingStatus `json:"status"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		BedspaceID:     b.BedspaceID,
		PersonRef:      b.PersonRef,
		ArrivalDate:    b.ArrivalDate.Format(dateLayout),
		DepartureDate:  b.DepartureDate.Format(dateLayout),
		TurnaroundDays: b.TurnaroundDays,
		Status:         b.Status,
	}
}

// PostBooking handles the POST /api/bookings request. The conflict check and
// the insert run inside one transaction so two concurrent clear verdicts
// cannot both persist.
func (h *Handler) PostBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	arrival, err := parseDate(req.ArrivalDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'arrivalDate'. Use YYYY-MM-DD."})
		return
	}
	departure, err := parseDate(req.DepartureDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'departureDate'. Use YYYY-MM-DD."})
		return
	}

	turnaround := h.defaultTurnaroundDays
	if req.TurnaroundDays != nil {
		if *req.TurnaroundDays < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "'turnaroundDays' cannot be negative"})
			return
		}
		turnaround = *req.TurnaroundDays
	}

	cal, ok := h.calendar(c)
	if !ok {
		return
	}

	booking := &model.Booking{
		ID:             uuid.New(),
		BedspaceID:     req.BedspaceID,
		PersonRef:      req.PersonRef,
		ArrivalDate:    arrival,
		DepartureDate:  departure,
		TurnaroundDays: turnaround,
		Status:         model.BookingStatusPending,
	}

	var conflict *scheduling.Conflict
	err = h.store.Transaction(c.Request.Context(), func(tx store.Store) error {
		detector := scheduling.NewDetector(tx)
		found, err := detector.Check(c.Request.Context(), cal, scheduling.ProposedBooking{
			BedspaceID:     req.BedspaceID,
			ArrivalDate:    arrival,
			DepartureDate:  departure,
			TurnaroundDays: turnaround,
		})
		if err != nil {
			return err
		}
		if found != nil {
			conflict = found
			return errConflict
		}
		return tx.CreateBooking(c.Request.Context(), booking)
	})
	if conflict != nil {
		respondConflict(c, conflict)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

type extendBookingRequest struct {
	NewDepartureDate string `json:"newDepartureDate" binding:"required"`
}

// PostBookingExtension handles the
// POST /api/bookings/{booking_id}/extensions request. The booking's own
// occupancy is excluded from the conflict check so a pure extension of the
// same stay never conflicts with itself.
func (h *Handler) PostBookingExtension(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req extendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	newDeparture, err := parseDate(req.NewDepartureDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'newDepartureDate'. Use YYYY-MM-DD."})
		return
	}

	cal, ok := h.calendar(c)
	if !ok {
		return
	}

	var conflict *scheduling.Conflict
	var updated *model.Booking
	err = h.store.Transaction(c.Request.Context(), func(tx store.Store) error {
		booking, err := tx.BookingByID(c.Request.Context(), bookingID)
		if err != nil {
			return err
		}
		if booking.Status == model.BookingStatusCancelled {
			return &scheduling.InvalidRangeError{Field: "bookingId", Message: "cancelled bookings cannot be extended"}
		}

		detector := scheduling.NewDetector(tx)
		found, err := detector.Check(c.Request.Context(), cal, scheduling.ProposedBooking{
			BedspaceID:       booking.BedspaceID,
			ArrivalDate:      booking.ArrivalDate,
			DepartureDate:    newDeparture,
			TurnaroundDays:   booking.TurnaroundDays,
			ExcludeBookingID: &booking.ID,
		})
		if err != nil {
			return err
		}
		if found != nil {
			conflict = found
			return errConflict
		}

		if err := tx.UpdateBookingDeparture(c.Request.Context(), booking.ID, newDeparture); err != nil {
			return err
		}
		booking.DepartureDate = newDeparture
		updated = booking
		return nil
	})
	if conflict != nil {
		respondConflict(c, conflict)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

// GetBooking handles the GET /api/bookings/{booking_id} request.
func (h *Handler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.store.BookingByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}
