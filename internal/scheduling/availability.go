package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/workingday"
)

// PremisesOccupancyReader provides the premises-wide booking and void reads
// used by availability calculation and search overlap annotation.
type PremisesOccupancyReader interface {
	// BookingsForPremises returns every booking, cancelled included, on any
	// bedspace of the given premises whose raw interval intersects [from, to].
	BookingsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.Booking, error)
	// VoidPeriodsForPremises returns non-cancelled void periods on any
	// bedspace of the given premises intersecting [from, to).
	VoidPeriodsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error)
}

// DayAvailability is the occupancy breakdown of a premises for one day.
// Cancelled bookings are counted separately for audit; they do not occupy.
type DayAvailability struct {
	Date               time.Time `json:"date"`
	PendingBookings    int       `json:"pendingBookings"`
	ArrivedBookings    int       `json:"arrivedBookings"`
	NonArrivedBookings int       `json:"nonArrivedBookings"`
	CancelledBookings  int       `json:"cancelledBookings"`
	VoidDays           int       `json:"voidDays"`
}

// AvailabilityCalculator produces per-day occupancy breakdowns for a
// premises. Day occupancy uses each booking's raw arrival and departure;
// turnaround buffers affect placement, not reporting.
type AvailabilityCalculator struct {
	occupancy PremisesOccupancyReader
}

// NewAvailabilityCalculator creates a calculator over the given reader.
func NewAvailabilityCalculator(occupancy PremisesOccupancyReader) *AvailabilityCalculator {
	return &AvailabilityCalculator{occupancy: occupancy}
}

// ForPremises returns one DayAvailability per day in the half-open range
// [start, end), keyed by date, with no gaps. end must be after start.
func (c *AvailabilityCalculator) ForPremises(ctx context.Context, premisesID uuid.UUID, start, end time.Time) (map[time.Time]DayAvailability, error) {
	start = workingday.DateOnly(start)
	end = workingday.DateOnly(end)
	if !end.After(start) {
		return nil, &InvalidRangeError{Field: "endDate", Message: "end date must be after start date"}
	}

	scope := []uuid.UUID{premisesID}
	bookings, err := c.occupancy.BookingsForPremises(ctx, scope, start, end.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for premises %s: %w", premisesID, err)
	}
	voids, err := c.occupancy.VoidPeriodsForPremises(ctx, scope, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load void periods for premises %s: %w", premisesID, err)
	}

	result := make(map[time.Time]DayAvailability)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		entry := DayAvailability{Date: day}
		for i := range bookings {
			if !bookings[i].OccupiesDay(day) {
				continue
			}
			switch bookings[i].Status {
			case model.BookingStatusArrived:
				entry.ArrivedBookings++
			case model.BookingStatusNotArrived:
				entry.NonArrivedBookings++
			case model.BookingStatusCancelled:
				entry.CancelledBookings++
			default:
				entry.PendingBookings++
			}
		}
		for i := range voids {
			if voids[i].CoversDay(day) {
				entry.VoidDays++
			}
		}
		result[day] = entry
	}
	return result, nil
}
