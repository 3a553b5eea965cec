package booking

import (
	"fmt"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
)

// ===============================
// Error codes
// ===============================

const (
	CodeInvalidTimeFormat = "invalid_time_format"
	CodeMissingField      = "missing_field"
	CodeServiceNotFound   = "service_not_found"
	CodeSlotConflict      = "slot_conflict"
	CodeStoreUnavailable  = "store_unavailable"

	CodeOutsideBusinessHours = "outside_business_hours"
	CodeBookingNotFound      = "booking_not_found"
	CodeInvalidState         = "invalid_state"
	CodeInvalidStatus        = "invalid_status"
	CodeInvalidEmail         = "invalid_email"
	CodeServiceInUse         = "service_in_use"
)

var (
	ErrServiceNotFound = httperr.ErrBusiness(CodeServiceNotFound)
	ErrBookingNotFound = httperr.ErrBusiness(CodeBookingNotFound)
	ErrInvalidState    = httperr.ErrBusiness(CodeInvalidState)
	ErrServiceInUse    = httperr.ErrBusiness(CodeServiceInUse)
)

func ErrMissingField(field string) error {
	return httperr.ErrBusinessDetail(CodeMissingField, field)
}

func ErrInvalidTimeFormat(value string) error {
	return httperr.ErrBusinessDetail(CodeInvalidTimeFormat, value)
}

// ErrSlotConflict names the occupied interval that blocked the request.
func ErrSlotConflict(taken Interval) error {
	return httperr.ErrBusinessDetail(CodeSlotConflict, taken.String())
}

func ErrStoreUnavailable(err error) error {
	return httperr.Wrap(CodeStoreUnavailable, err)
}

func ErrOutsideBusinessHours(iv Interval) error {
	return httperr.ErrBusinessDetail(CodeOutsideBusinessHours, iv.String())
}

func ErrInvalidStatus(value string) error {
	return httperr.ErrBusinessDetail(CodeInvalidStatus, fmt.Sprintf("%q", value))
}

func IsSlotConflict(err error) bool {
	return httperr.IsBusiness(err, CodeSlotConflict)
}

func IsBookingNotFound(err error) bool {
	return httperr.IsBusiness(err, CodeBookingNotFound)
}

func IsStoreUnavailable(err error) bool {
	return httperr.IsBusiness(err, CodeStoreUnavailable)
}

func ErrInvalidEmail(value string) error {
	return httperr.ErrBusinessDetail(CodeInvalidEmail, value)
}
