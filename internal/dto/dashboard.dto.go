package dto

import "github.com/shopspring/decimal"

type TopServiceDTO struct {
	ServiceID   uint            `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Bookings    int64           `json:"bookings"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DashboardDTO struct {
	TotalBookings  int64            `json:"total_bookings"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	AvgBooking     decimal.Decimal  `json:"avg_booking"`
	TotalServices  int64            `json:"total_services"`
	TotalCustomers int64            `json:"total_customers"`
	TodayBookings  int64            `json:"today_bookings"`
	RecentBookings []BookingListDTO `json:"recent_bookings"`
	TopServices    []TopServiceDTO  `json:"top_services"`
}
