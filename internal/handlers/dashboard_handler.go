package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/dto"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/timezone"
)

const (
	dashboardRecent = 5
	dashboardTop    = 5
)

type DashboardHandler struct {
	db       *gorm.DB
	timezone string
}

func NewDashboardHandler(db *gorm.DB, tz string) *DashboardHandler {
	return &DashboardHandler{db: db, timezone: tz}
}

type topServiceRow struct {
	ServiceID   uint
	ServiceName string
	Bookings    int64
	Revenue     decimal.Decimal
}

// Get reports the admin overview. Revenue counts occupying bookings only.
func (h *DashboardHandler) Get(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	occupying := domain.OccupyingStatuses()

	var out dto.DashboardDTO

	if err := db.Model(&models.Booking{}).Count(&out.TotalBookings).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}

	var revenue struct {
		Total decimal.Decimal
		Count int64
	}
	if err := db.Model(&models.Booking{}).
		Select("COALESCE(SUM(services.price), 0) AS total, COUNT(bookings.id) AS count").
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("bookings.status IN ?", occupying).
		Scan(&revenue).Error; err != nil {

		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}
	out.TotalRevenue = revenue.Total
	out.AvgBooking = averagePrice(revenue.Total, revenue.Count)

	if err := db.Model(&models.Service{}).Count(&out.TotalServices).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}
	if err := db.Model(&models.Customer{}).Count(&out.TotalCustomers).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}

	today := timezone.Today(h.timezone)
	if err := db.Model(&models.Booking{}).
		Where("booking_date = ? AND status IN ?", domain.FormatDate(today), occupying).
		Count(&out.TodayBookings).Error; err != nil {

		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}

	var recent []models.Booking
	if err := db.
		Preload("Service").
		Preload("Customer").
		Order("created_at DESC").
		Limit(dashboardRecent).
		Find(&recent).Error; err != nil {

		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}
	out.RecentBookings = dto.ToBookingListSlice(recent)

	var top []topServiceRow
	if err := db.Model(&models.Booking{}).
		Select("services.id AS service_id, services.name AS service_name, COUNT(bookings.id) AS bookings, COALESCE(SUM(services.price), 0) AS revenue").
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("bookings.status IN ?", occupying).
		Group("services.id, services.name").
		Order("bookings DESC").
		Limit(dashboardTop).
		Scan(&top).Error; err != nil {

		httperr.Internal(c, "dashboard_failed", "Could not build the dashboard.")
		return
	}

	out.TopServices = make([]dto.TopServiceDTO, 0, len(top))
	for _, r := range top {
		out.TopServices = append(out.TopServices, dto.TopServiceDTO(r))
	}

	httpresp.OK(c, out)
}

func averagePrice(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}
