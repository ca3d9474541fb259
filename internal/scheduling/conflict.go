package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/workingday"
)

// OccupancyReader is the read-only view of a bedspace's existing bookings and
// void periods that conflict detection needs. Implemented by the store; the
// detector performs no writes.
type OccupancyReader interface {
	BedspaceByID(ctx context.Context, id uuid.UUID) (*model.Bedspace, error)
	// BookingsForBedspace returns non-cancelled bookings on the bedspace
	// arriving on or before the given date.
	BookingsForBedspace(ctx context.Context, bedspaceID uuid.UUID, arrivingOnOrBefore time.Time) ([]model.Booking, error)
	// VoidPeriodsForBedspace returns non-cancelled void periods on the
	// bedspace whose half-open interval intersects [from, to).
	VoidPeriodsForBedspace(ctx context.Context, bedspaceID uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error)
}

// ProposedBooking is a placement to be checked against a bedspace's existing
// occupancy. ExcludeBookingID lets extension and edit operations ignore the
// booking being changed.
type ProposedBooking struct {
	BedspaceID       uuid.UUID
	ArrivalDate      time.Time
	DepartureDate    time.Time
	TurnaroundDays   int
	ExcludeBookingID *uuid.UUID
}

// Detector decides whether a proposed booking may be placed on a bedspace.
//
// The verdict is only as good as the data read at check time: the caller's
// write path must hold a serialization guarantee (transaction, unique
// constraint) so two concurrent clear verdicts cannot both persist.
type Detector struct {
	occupancy OccupancyReader
}

// NewDetector creates a conflict detector over the given occupancy reader.
func NewDetector(occupancy OccupancyReader) *Detector {
	return &Detector{occupancy: occupancy}
}

// Check returns the first conflict for the proposal, or nil when the
// placement is clear. Booking conflicts take priority over void conflicts,
// which take priority over the archived-bedspace check.
func (d *Detector) Check(ctx context.Context, cal *workingday.Calendar, p ProposedBooking) (*Conflict, error) {
	conflicts, err := d.scan(ctx, cal, p, true)
	if err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

// CheckAll performs an exhaustive scan and returns every conflict for the
// proposal, ordered booking conflicts first, then voids, then archival.
func (d *Detector) CheckAll(ctx context.Context, cal *workingday.Calendar, p ProposedBooking) ([]Conflict, error) {
	return d.scan(ctx, cal, p, false)
}

func (d *Detector) scan(ctx context.Context, cal *workingday.Calendar, p ProposedBooking, firstOnly bool) ([]Conflict, error) {
	arrival := workingday.DateOnly(p.ArrivalDate)
	departure := workingday.DateOnly(p.DepartureDate)
	if departure.Before(arrival) {
		return nil, &InvalidRangeError{Field: "departureDate", Message: "departure date cannot precede arrival date"}
	}

	bedspace, err := d.occupancy.BedspaceByID(ctx, p.BedspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bedspace %s: %w", p.BedspaceID, err)
	}

	lastUnavailable := cal.AddWorkingDays(departure, p.TurnaroundDays)

	var conflicts []Conflict

	bookings, err := d.occupancy.BookingsForBedspace(ctx, p.BedspaceID, lastUnavailable)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for bedspace %s: %w", p.BedspaceID, err)
	}
	for i := range bookings {
		existing := &bookings[i]
		if p.ExcludeBookingID != nil && existing.ID == *p.ExcludeBookingID {
			continue
		}
		// Inclusive boundary: an existing booking whose last unavailable
		// date equals the proposed arrival still conflicts.
		if !existing.LastUnavailableDate(cal).Before(arrival) {
			id := existing.ID
			conflicts = append(conflicts, Conflict{
				Kind:       ConflictKindBooking,
				BedspaceID: p.BedspaceID,
				BookingID:  &id,
			})
			if firstOnly {
				return conflicts, nil
			}
		}
	}

	voids, err := d.occupancy.VoidPeriodsForBedspace(ctx, p.BedspaceID, arrival, lastUnavailable.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load void periods for bedspace %s: %w", p.BedspaceID, err)
	}
	for i := range voids {
		void := &voids[i]
		// Half-open boundary: a void ending exactly on the proposed arrival
		// does not conflict.
		start := workingday.DateOnly(void.StartDate)
		end := workingday.DateOnly(void.EndDate)
		if start.Before(lastUnavailable.AddDate(0, 0, 1)) && end.After(arrival) {
			id := void.ID
			conflicts = append(conflicts, Conflict{
				Kind:         ConflictKindVoid,
				BedspaceID:   p.BedspaceID,
				VoidPeriodID: &id,
			})
			if firstOnly {
				return conflicts, nil
			}
		}
	}

	if bedspace.ArchivedOnOrBefore(departure) {
		conflicts = append(conflicts, Conflict{
			Kind:       ConflictKindArchived,
			BedspaceID: p.BedspaceID,
		})
	}

	return conflicts, nil
}
