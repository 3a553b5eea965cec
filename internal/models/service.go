package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:255" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	DisplayOrder    int             `gorm:"default:0" json:"display_order"`
	Category        string          `gorm:"size:50" json:"category"`
	ImageURL        string          `gorm:"size:255" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
