package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// MemoryBookingRepository keeps everything in process memory. It does not
// serialize check-then-insert on its own; callers rely on a lock.Locker.
// The use case and handler tests run against it.
type MemoryBookingRepository struct {
	mu        sync.Mutex
	services  map[uint]*models.Service
	customers map[string]*models.Customer
	bookings  []*models.Booking
	nextID    uint

	failures     int
	lostAcks     int
	serviceCalls int
}

func NewMemoryBookingRepository(services ...models.Service) *MemoryBookingRepository {
	r := &MemoryBookingRepository{
		services:  map[uint]*models.Service{},
		customers: map[string]*models.Customer{},
	}
	for i := range services {
		s := services[i]
		r.services[s.ID] = &s
	}
	return r
}

func (r *MemoryBookingRepository) failing() error {
	if r.failures > 0 {
		r.failures--
		return booking.ErrStoreUnavailable(context.DeadlineExceeded)
	}
	return nil
}

func (r *MemoryBookingRepository) FindServiceByID(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serviceCalls++
	if err := r.failing(); err != nil {
		return nil, err
	}
	s, ok := r.services[id]
	if !ok {
		return nil, booking.ErrServiceNotFound
	}
	c := *s
	return &c, nil
}

func (r *MemoryBookingRepository) FindOccupyingBookings(_ context.Context, q booking.OccupancyQuery) ([]booking.Interval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failing(); err != nil {
		return nil, err
	}

	day := booking.FormatDate(q.Date)
	var out []booking.Interval
	for _, b := range r.bookings {
		if booking.FormatDate(b.BookingDate) != day || !booking.Status(b.Status).Occupies() {
			continue
		}
		if q.ServiceID != nil && b.ServiceID != *q.ServiceID {
			continue
		}
		out = append(out, booking.Interval{Start: b.StartMinute, End: b.EndMinute})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *MemoryBookingRepository) UpsertCustomerByPhone(_ context.Context, c *models.Customer) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.customers[c.Phone]; ok {
		if c.Name != "" {
			existing.Name = c.Name
		}
		if c.Email != "" {
			existing.Email = c.Email
		}
		out := *existing
		return &out, nil
	}

	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.customers[c.Phone] = &stored
	out := stored
	return &out, nil
}

func (r *MemoryBookingRepository) InsertBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failing(); err != nil {
		return err
	}
	r.nextID++
	b.ID = r.nextID
	stored := *b
	r.bookings = append(r.bookings, &stored)

	if r.lostAcks > 0 {
		r.lostAcks--
		return booking.ErrStoreUnavailable(context.DeadlineExceeded)
	}
	return nil
}

func (r *MemoryBookingRepository) LockScope(context.Context, string) error { return nil }

func (r *MemoryBookingRepository) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.ID == id {
			c := *b
			if s, ok := r.services[b.ServiceID]; ok {
				c.Service = *s
			}
			return &c, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (r *MemoryBookingRepository) FindBookingByReference(_ context.Context, ref string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failing(); err != nil {
		return nil, err
	}
	for _, b := range r.bookings {
		if b.Reference == ref {
			c := *b
			if s, ok := r.services[b.ServiceID]; ok {
				c.Service = *s
			}
			for _, cu := range r.customers {
				if cu.ID == b.CustomerID {
					c.Customer = *cu
				}
			}
			return &c, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (r *MemoryBookingRepository) SaveBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.bookings {
		if existing.ID == b.ID {
			c := *b
			r.bookings[i] = &c
			return nil
		}
	}
	return booking.ErrBookingNotFound
}

func (r *MemoryBookingRepository) ListBookings(_ context.Context, f booking.BookingFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if f.Status != "" && b.Status != string(f.Status) {
			continue
		}
		if f.From != nil && b.BookingDate.Before(*f.From) {
			continue
		}
		if f.To != nil && b.BookingDate.After(*f.To) {
			continue
		}
		if f.ServiceID != 0 && b.ServiceID != f.ServiceID {
			continue
		}
		out = append(out, *b)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryBookingRepository) WithinTx(_ context.Context, fn func(tx booking.Repository) error) error {
	return fn(r)
}

// FailNext makes the next n store calls fail with store_unavailable.
func (r *MemoryBookingRepository) FailNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = n
}

// LoseNextInsertAck stores the next booking but reports store_unavailable,
// as when the connection drops after COMMIT was sent.
func (r *MemoryBookingRepository) LoseNextInsertAck() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lostAcks = 1
}

// BookingCount returns the number of stored bookings.
func (r *MemoryBookingRepository) BookingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// ServiceCalls counts FindServiceByID calls since the last reset.
func (r *MemoryBookingRepository) ServiceCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serviceCalls
}

func (r *MemoryBookingRepository) ResetServiceCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serviceCalls = 0
}

func (r *MemoryBookingRepository) SetServiceDuration(id uint, minutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[id]; ok {
		s.DurationMinutes = minutes
	}
}

func (r *MemoryBookingRepository) CustomerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}

var _ booking.Repository = (*MemoryBookingRepository)(nil)
