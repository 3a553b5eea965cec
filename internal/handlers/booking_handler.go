package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/dto"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *booking.CreateBooking
	availability *booking.GetAvailability
	list         *booking.ListBookings
	status       *booking.UpdateBookingStatus
	repo         domain.Repository
}

func NewBookingHandler(deps booking.Deps) *BookingHandler {
	return &BookingHandler{
		create:       booking.NewCreateBooking(deps),
		availability: booking.NewGetAvailability(deps),
		list:         booking.NewListBookings(deps),
		status:       booking.NewUpdateBookingStatus(deps),
		repo:         deps.Repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateBookingRequest carries no binding tags: missing fields are reported
// by the use case with the field name.
type CreateBookingRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	PhoneNumber     string `json:"phone_number"`
	CustomerEmail   string `json:"customer_email"`
	ServiceID       uint   `json:"service_id"`
	BookingDate     string `json:"booking_date"`
	StartTime       string `json:"start_time"`
	BookingTime     string `json:"booking_time"`
	SpecialRequests string `json:"special_requests"`

	// Admin only.
	Status string `json:"status"`
}

func (r CreateBookingRequest) input() booking.CreateBookingInput {
	phone := r.CustomerPhone
	if strings.TrimSpace(phone) == "" {
		phone = r.PhoneNumber
	}
	start := r.StartTime
	if strings.TrimSpace(start) == "" {
		start = r.BookingTime
	}

	return booking.CreateBookingInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   phone,
		CustomerEmail:   r.CustomerEmail,
		ServiceID:       r.ServiceID,
		BookingDate:     r.BookingDate,
		StartTime:       start,
		SpecialRequests: r.SpecialRequests,
	}
}

// ======================================================
// PUBLIC
// ======================================================

// Availability serves GET /api/availability?date=YYYY-MM-DD&service_id=N
func (h *BookingHandler) Availability(c *gin.Context) {
	var serviceID uint
	if raw := strings.TrimSpace(c.Query("service_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
			return
		}
		serviceID = uint(id)
	}

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID: serviceID,
		Date:      c.Query("date"),
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, dto.AvailabilityResponse{
		Date:            domain.FormatDate(res.Date),
		ServiceID:       res.Service.ID,
		DurationMinutes: res.Service.DurationMinutes,
		AvailableSlots:  res.Slots,
	})
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	h.createFrom(c, req.input())
}

// ======================================================
// ADMIN
// ======================================================

func (h *BookingHandler) AdminCreate(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := req.input()
	in.Status = req.Status
	in.ActorID = middleware.ActorID(c)

	h.createFrom(c, in)
}

func (h *BookingHandler) createFrom(c *gin.Context, in booking.CreateBookingInput) {
	res, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.Created(c, dto.CreateBookingResponse{
		Booking:      dto.ToBookingSummary(res.Booking),
		CustomerID:   res.CustomerID,
		ServicePrice: res.ServicePrice,
	})
}

func (h *BookingHandler) List(c *gin.Context) {
	in := booking.ListBookingsInput{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
			return
		}
		in.ServiceID = uint(id)
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httperr.BadRequest(c, "invalid_limit", "Limit must be a positive integer.")
			return
		}
		in.Limit = n
	}

	rows, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.List(c, dto.ToBookingListSlice(rows))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.repo.GetBooking(c.Request.Context(), id)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, dto.ToBookingList(b))
}

func (h *BookingHandler) Confirm(c *gin.Context)  { h.transition(c, booking.TransitionConfirm) }
func (h *BookingHandler) Complete(c *gin.Context) { h.transition(c, booking.TransitionComplete) }
func (h *BookingHandler) Cancel(c *gin.Context)   { h.transition(c, booking.TransitionCancel) }

func (h *BookingHandler) transition(c *gin.Context, tr booking.Transition) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.status.Execute(c.Request.Context(), booking.UpdateStatusInput{
		BookingID:  id,
		Transition: tr,
		ActorID:    middleware.ActorID(c),
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, dto.ToBookingSummary(b))
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}
