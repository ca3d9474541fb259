package model

import (
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/workingday"
)

// Bedspace is a single bookable bed within a room. An EndDate marks the
// bedspace as archived; archived bedspaces are excluded from future
// scheduling.
type Bedspace struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Reference string     `gorm:"size:64;not null"`
	EndDate   *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}

// ArchivedOnOrBefore reports whether the bedspace has an end date at or
// before the given date.
func (b *Bedspace) ArchivedOnOrBefore(date time.Time) bool {
	if b.EndDate == nil {
		return false
	}
	return !workingday.DateOnly(*b.EndDate).After(workingday.DateOnly(date))
}
