package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// OccupancyQuery selects the occupying bookings of one date. A nil
// ServiceID means every service (business-wide scope).
type OccupancyQuery struct {
	Date      time.Time
	ServiceID *uint
}

// BookingFilter drives the admin listing. Zero values mean "no filter".
type BookingFilter struct {
	Status    Status
	From      *time.Time
	To        *time.Time
	ServiceID uint
	Limit     int
}

// Store is the narrow persistence surface the booking engine relies on.
// Implementations return ErrServiceNotFound for unknown services and wrap
// every other failure with ErrStoreUnavailable; an insert rejected by the
// overlap constraint comes back as a slot conflict.
type Store interface {
	FindServiceByID(ctx context.Context, id uint) (*models.Service, error)

	FindOccupyingBookings(ctx context.Context, q OccupancyQuery) ([]Interval, error)

	UpsertCustomerByPhone(ctx context.Context, c *models.Customer) (*models.Customer, error)

	InsertBooking(ctx context.Context, b *models.Booking) error

	// LockScope serializes writers of one conflict-scope key until the
	// surrounding transaction ends.
	LockScope(ctx context.Context, key string) error
}

type Repository interface {
	Store

	// -------- Admin --------
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)

	// FindBookingByReference returns ErrBookingNotFound when no booking
	// carries ref.
	FindBookingByReference(ctx context.Context, ref string) (*models.Booking, error)

	SaveBooking(ctx context.Context, b *models.Booking) error

	ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error)

	// WithinTx runs fn in a single transaction; any error rolls back every
	// write made through tx.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}
