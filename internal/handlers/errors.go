package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
)

type errorMapping struct {
	status  int
	message string
}

var bookingErrors = map[string]errorMapping{
	domain.CodeMissingField:         {http.StatusBadRequest, "A required field is missing."},
	domain.CodeInvalidTimeFormat:    {http.StatusBadRequest, "Invalid date or time."},
	domain.CodeInvalidStatus:        {http.StatusBadRequest, "Invalid status."},
	domain.CodeInvalidEmail:         {http.StatusBadRequest, "The email domain does not look valid."},
	domain.CodeOutsideBusinessHours: {http.StatusBadRequest, "Outside business hours."},
	domain.CodeServiceNotFound:      {http.StatusNotFound, "Service not found."},
	domain.CodeBookingNotFound:      {http.StatusNotFound, "Booking not found."},
	domain.CodeSlotConflict:         {http.StatusConflict, "This time slot is no longer available. Please choose another."},
	domain.CodeInvalidState:         {http.StatusConflict, "The booking cannot move to that status."},
	domain.CodeServiceInUse:         {http.StatusConflict, "The service still has bookings."},
	domain.CodeStoreUnavailable:     {http.StatusServiceUnavailable, "Booking store unavailable, try again shortly."},
}

// mapBookingError writes the HTTP response for a use case error.
func mapBookingError(c *gin.Context, err error) {
	code, ok := httperr.CodeOf(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	m, known := bookingErrors[code]
	if !known {
		m = errorMapping{http.StatusBadRequest, "Request rejected."}
	}

	httperr.WriteDetail(c, m.status, code, m.message, httperr.DetailOf(err))
}
