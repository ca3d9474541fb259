package model

import (
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/workingday"
)

// VoidPeriod blocks a bedspace administratively over the half-open interval
// [StartDate, EndDate). A cancelled void period does not occupy the bedspace.
type VoidPeriod struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BedspaceID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	StartDate   time.Time  `gorm:"not null;index"`
	EndDate     time.Time  `gorm:"not null;index"`
	Reason      string     `gorm:"size:256"`
	CancelledAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`

	// Associations
	Bedspace Bedspace `gorm:"constraint:OnDelete:CASCADE"`
}

// Cancelled reports whether the void period has been cancelled.
func (v *VoidPeriod) Cancelled() bool {
	return v.CancelledAt != nil
}

// CoversDay reports whether the void period covers the given day, start
// inclusive and end exclusive.
func (v *VoidPeriod) CoversDay(day time.Time) bool {
	day = workingday.DateOnly(day)
	return !day.Before(workingday.DateOnly(v.StartDate)) && day.Before(workingday.DateOnly(v.EndDate))
}
