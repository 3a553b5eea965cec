package models

import "time"

// Customer is identified by phone number; a repeat booking from the same
// phone updates the profile instead of creating a new row.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
