package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// storeErr keeps business errors as they are and marks everything else as
// a store failure, the one class the use cases retry.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.CodeOf(err); ok {
		return err
	}
	return booking.ErrStoreUnavailable(err)
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) FindServiceByID(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrServiceNotFound
		}
		return nil, storeErr(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Occupancy
// --------------------------------------------------

func (r *BookingGormRepository) FindOccupyingBookings(
	ctx context.Context,
	q booking.OccupancyQuery,
) ([]booking.Interval, error) {

	var rows []struct {
		StartMinute int
		EndMinute   int
	}

	query := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("start_minute", "end_minute").
		Where("booking_date = ? AND status IN ?", booking.FormatDate(q.Date), booking.OccupyingStatuses())

	if q.ServiceID != nil {
		query = query.Where("service_id = ?", *q.ServiceID)
	}

	if err := query.Order("start_minute ASC").Scan(&rows).Error; err != nil {
		return nil, storeErr(err)
	}

	out := make([]booking.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, booking.Interval{Start: row.StartMinute, End: row.EndMinute})
	}
	return out, nil
}

func (r *BookingGormRepository) LockScope(
	ctx context.Context,
	key string,
) error {
	return storeErr(r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error)
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *BookingGormRepository) UpsertCustomerByPhone(
	ctx context.Context,
	c *models.Customer,
) (*models.Customer, error) {

	row := *c
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       gorm.Expr("COALESCE(NULLIF(EXCLUDED.name, ''), customers.name)"),
				"email":      gorm.Expr("COALESCE(NULLIF(EXCLUDED.email, ''), customers.email)"),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, storeErr(err)
	}

	var saved models.Customer
	if err := r.db.WithContext(ctx).
		Where("phone = ?", c.Phone).
		First(&saved).Error; err != nil {
		return nil, storeErr(err)
	}
	return &saved, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) InsertBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error; err != nil {
		if httperr.IsExclusionConflict(err) {
			return booking.ErrSlotConflict(booking.Interval{Start: b.StartMinute, End: b.EndMinute})
		}
		return storeErr(err)
	}
	return nil
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, storeErr(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) FindBookingByReference(
	ctx context.Context,
	ref string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Where("reference = ?", ref).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, storeErr(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) SaveBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error; err != nil {
		if httperr.IsExclusionConflict(err) {
			return booking.ErrSlotConflict(booking.Interval{Start: b.StartMinute, End: b.EndMinute})
		}
		return storeErr(err)
	}
	return nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f booking.BookingFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer")

	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("booking_date >= ?", booking.FormatDate(*f.From))
	}
	if f.To != nil {
		q = q.Where("booking_date <= ?", booking.FormatDate(*f.To))
	}
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []models.Booking
	if err := q.
		Order("booking_date DESC, start_minute DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx booking.Repository) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
	return storeErr(err)
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
