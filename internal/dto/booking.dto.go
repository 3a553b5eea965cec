package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type BookingSummaryDTO struct {
	ID          uint   `json:"id"`
	Reference   string `json:"reference"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

type CreateBookingResponse struct {
	Booking      BookingSummaryDTO `json:"booking"`
	CustomerID   uint              `json:"customer_id"`
	ServicePrice decimal.Decimal   `json:"service_price"`
}

type BookingListDTO struct {
	ID              uint            `json:"id"`
	Reference       string          `json:"reference"`
	BookingDate     string          `json:"booking_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	Status          string          `json:"status"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	ServiceID       uint            `json:"service_id"`
	ServiceName     string          `json:"service_name"`
	ServicePrice    decimal.Decimal `json:"service_price"`
	CustomerID      uint            `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type AvailabilityResponse struct {
	Date            string        `json:"date"`
	ServiceID       uint          `json:"service_id"`
	DurationMinutes int           `json:"duration_minutes"`
	AvailableSlots  []domain.Slot `json:"available_slots"`
}

func ToBookingSummary(b *models.Booking) BookingSummaryDTO {
	return BookingSummaryDTO{
		ID:          b.ID,
		Reference:   b.Reference,
		BookingDate: domain.FormatDate(b.BookingDate),
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
	}
}

func ToBookingList(b *models.Booking) BookingListDTO {
	return BookingListDTO{
		ID:              b.ID,
		Reference:       b.Reference,
		BookingDate:     domain.FormatDate(b.BookingDate),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		ServiceID:       b.ServiceID,
		ServiceName:     b.Service.Name,
		ServicePrice:    b.Service.Price,
		CustomerID:      b.CustomerID,
		CustomerName:    b.Customer.Name,
		CustomerPhone:   b.Customer.Phone,
		CustomerEmail:   b.Customer.Email,
		CreatedAt:       b.CreatedAt,
	}
}

func ToBookingListSlice(in []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(in))
	for i := range in {
		out = append(out, ToBookingList(&in[i]))
	}
	return out
}
