package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is reference data managed out-of-band (seeding, admin tooling); the
// API only reads it.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug      string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Ingredient is reference data, unique by name plus measurement unit.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
