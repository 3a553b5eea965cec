package models

import "time"

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	CustomerID uint     `gorm:"not null" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer"`

	ServiceID uint    `gorm:"not null;index:idx_bookings_date_service,priority:2" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	BookingDate time.Time `gorm:"type:date;not null;index:idx_bookings_date_service,priority:1" json:"booking_date"`

	// "HH:MM" wall-clock values; the *Minute columns back range queries and
	// the overlap exclusion constraint.
	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	StartMinute int    `gorm:"type:integer;not null" json:"-"`
	EndMinute   int    `gorm:"type:integer;not null" json:"-"`

	Status          string `gorm:"size:20;not null;default:'confirmed';index" json:"status"`
	SpecialRequests string `gorm:"size:500" json:"special_requests"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
