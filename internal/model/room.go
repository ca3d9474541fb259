package model

import (
	"time"

	"github.com/google/uuid"
)

// Room groups bedspaces within a premises and carries room-scoped
// characteristics.
type Room struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PremisesID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name       string    `gorm:"size:256;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`

	// Associations
	Premises        Premises         `gorm:"constraint:OnDelete:CASCADE"`
	Bedspaces       []Bedspace       `gorm:"foreignKey:RoomID"`
	Characteristics []Characteristic `gorm:"many2many:room_characteristics"`
}
