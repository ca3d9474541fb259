package model

import (
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/workingday"
)

// BookingStatus is the closed set of booking states.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusArrived    BookingStatus = "arrived"
	BookingStatusNotArrived BookingStatus = "notArrived"
	BookingStatusDeparted   BookingStatus = "departed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking occupies a bedspace from ArrivalDate to DepartureDate, both
// inclusive, plus a turnaround buffer of working days after departure.
type Booking struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	BedspaceID     uuid.UUID     `gorm:"type:uuid;index;not null"`
	PersonRef      string        `gorm:"size:64;not null"`
	ArrivalDate    time.Time     `gorm:"not null;index"`
	DepartureDate  time.Time     `gorm:"not null;index"`
	TurnaroundDays int           `gorm:"not null"`
	Status         BookingStatus `gorm:"size:32;not null"`
	CreatedAt      time.Time     `gorm:"not null"`
	UpdatedAt      time.Time     `gorm:"not null"`

	// Associations
	Bedspace Bedspace `gorm:"constraint:OnDelete:CASCADE"`
}

// LastUnavailableDate is the departure date advanced by the booking's
// turnaround working days. The bedspace is occupied for conflict purposes
// over the inclusive interval [ArrivalDate, LastUnavailableDate].
func (b *Booking) LastUnavailableDate(cal *workingday.Calendar) time.Time {
	return cal.AddWorkingDays(b.DepartureDate, b.TurnaroundDays)
}

// OccupiesDay reports whether the booking occupies the given day for
// day-by-day reporting. The raw interval is used: arrival inclusive,
// departure exclusive, turnaround ignored.
func (b *Booking) OccupiesDay(day time.Time) bool {
	day = workingday.DateOnly(day)
	arrival := workingday.DateOnly(b.ArrivalDate)
	departure := workingday.DateOnly(b.DepartureDate)
	return !day.Before(arrival) && day.Before(departure)
}
