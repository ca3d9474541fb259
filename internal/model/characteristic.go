package model

import (
	"time"

	"github.com/google/uuid"
)

// CharacteristicScope is the closed set of levels a characteristic can be
// attached at. The scope is carried as data and resolved at load time.
type CharacteristicScope string

const (
	ScopePremises CharacteristicScope = "premises"
	ScopeRoom     CharacteristicScope = "room"
)

// Characteristic is a tagged attribute of a premises or room, such as
// wheelchair accessibility or gender exclusivity.
type Characteristic struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name         string              `gorm:"size:128;uniqueIndex;not null"`
	Scope        CharacteristicScope `gorm:"size:16;not null"`
	ServiceScope string              `gorm:"size:32;not null"`
	CreatedAt    time.Time           `gorm:"not null"`
	UpdatedAt    time.Time           `gorm:"not null"`
}
