package model

import (
	"time"

	"github.com/google/uuid"
)

// ProbationDeliveryUnit is the location scope unit used by bedspace search.
type ProbationDeliveryUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:256;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name; "premises" is its own plural.
func (Premises) TableName() string { return "premises" }

// Premises is a property containing rooms, each room containing bedspaces.
type Premises struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                    string    `gorm:"size:256;not null"`
	AddressLine1            string    `gorm:"size:256"`
	Postcode                string    `gorm:"size:16"`
	ProbationDeliveryUnitID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt               time.Time `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`

	// Associations
	ProbationDeliveryUnit ProbationDeliveryUnit `gorm:"constraint:OnDelete:CASCADE"`
	Rooms                 []Room                `gorm:"foreignKey:PremisesID"`
	Characteristics       []Characteristic      `gorm:"many2many:premises_characteristics"`
}
