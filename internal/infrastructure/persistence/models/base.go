package models

import "time"

// BaseModel provides common persistence fields for root tables.
// Timestamps live only here; the domain aggregate does not carry them.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AllModels returns every model managed by AutoMigrate
func AllModels() []any {
	return []any{
		&QuoteModel{},
		&SpaceModel{},
		&ItemModel{},
	}
}
