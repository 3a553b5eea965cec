package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ServiceID       uint
	BookingDate     string
	StartTime       string
	SpecialRequests string

	// Status is only honoured on the admin path; empty means confirmed.
	Status  string
	ActorID *uint
}

type CreateBookingResult struct {
	Booking      *models.Booking
	CustomerID   uint
	ServicePrice decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps Deps
}

func NewCreateBooking(deps Deps) *CreateBooking {
	return &CreateBooking{deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	// --------------------------------------------------
	// 1. Input validation
	// --------------------------------------------------
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.BookingDate = strings.TrimSpace(in.BookingDate)
	in.StartTime = strings.TrimSpace(in.StartTime)

	switch {
	case in.CustomerPhone == "":
		return nil, domain.ErrMissingField("customer_phone")
	case in.ServiceID == 0:
		return nil, domain.ErrMissingField("service_id")
	case in.BookingDate == "":
		return nil, domain.ErrMissingField("booking_date")
	case in.StartTime == "":
		return nil, domain.ErrMissingField("start_time")
	}

	date, err := domain.ParseDate(in.BookingDate)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ToMinutes(in.StartTime); err != nil {
		return nil, err
	}

	status := domain.InitialStatus()
	if in.Status != "" {
		status, err = domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if status != domain.StatusConfirmed && status != domain.StatusPending {
			return nil, domain.ErrInvalidStatus(in.Status)
		}
	}

	if in.CustomerEmail != "" && uc.deps.EmailCheck != nil && !uc.deps.EmailCheck(in.CustomerEmail) {
		return nil, domain.ErrInvalidEmail(in.CustomerEmail)
	}

	// --------------------------------------------------
	// 2. Check-then-insert, replayed on store failures
	// --------------------------------------------------
	// The reference is fixed across attempts so a retry can recognize a
	// booking whose commit landed but was reported as failed.
	ref := uuid.NewString()
	tries := 0
	res, err := withStoreRetry(ctx, uc.deps.Retry, uc.deps.Log, func() (*CreateBookingResult, error) {
		tries++
		return uc.attempt(ctx, in, date, status, ref, tries > 1)
	})

	fields := logrus.Fields{
		"service_id": in.ServiceID,
		"date":       in.BookingDate,
		"start_time": in.StartTime,
	}

	if err != nil {
		switch {
		case domain.IsSlotConflict(err):
			uc.deps.Log.WithFields(fields).WithError(err).Info("booking rejected: slot taken")
			uc.deps.Audit.Dispatch(audit.Event{
				UserID:   in.ActorID,
				Action:   "booking_conflict",
				Entity:   "booking",
				Metadata: fields,
			})
		case domain.IsStoreUnavailable(err):
			uc.deps.Log.WithFields(fields).WithError(err).Error("booking failed: store unavailable")
		default:
			uc.deps.Log.WithFields(fields).WithError(err).Info("booking rejected")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Side effects after commit
	// --------------------------------------------------
	uc.deps.Cache.InvalidateDate(ctx, date)

	uc.deps.Audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: audit.Ptr(res.Booking.ID),
		Metadata: map[string]any{
			"reference":  res.Booking.Reference,
			"service_id": res.Booking.ServiceID,
			"date":       in.BookingDate,
			"start_time": res.Booking.StartTime,
			"end_time":   res.Booking.EndTime,
			"status":     res.Booking.Status,
		},
	})

	uc.deps.Log.WithFields(fields).
		WithField("booking_id", res.Booking.ID).
		WithField("end_time", res.Booking.EndTime).
		Info("booking created")

	return res, nil
}

func (uc *CreateBooking) attempt(
	ctx context.Context,
	in CreateBookingInput,
	date time.Time,
	status domain.Status,
	ref string,
	retried bool,
) (*CreateBookingResult, error) {
	repo := uc.deps.Repo

	svc, err := repo.FindServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// The end time is fixed here from the current duration and never
	// recomputed.
	iv, err := domain.NewInterval(in.StartTime, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if uc.deps.EnforceHours && !uc.deps.Hours.Contains(date, iv) {
		return nil, domain.ErrOutsideBusinessHours(iv)
	}

	key := uc.deps.Scope.Key(date, svc.ID)
	release, err := uc.deps.Locker.Acquire(ctx, key)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	defer release()

	var out *CreateBookingResult

	err = repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.LockScope(ctx, key); err != nil {
			return err
		}

		if retried {
			prior, err := tx.FindBookingByReference(ctx, ref)
			switch {
			case err == nil:
				out = &CreateBookingResult{
					Booking:      prior,
					CustomerID:   prior.CustomerID,
					ServicePrice: svc.Price,
				}
				return nil
			case !domain.IsBookingNotFound(err):
				return err
			}
		}

		// Pending requests do not occupy the calendar yet.
		if status.Occupies() {
			existing, err := tx.FindOccupyingBookings(ctx, uc.deps.Scope.Query(date, svc.ID))
			if err != nil {
				return err
			}
			if err := domain.CheckConflict(iv, existing); err != nil {
				return err
			}
		}

		customer, err := tx.UpsertCustomerByPhone(ctx, &models.Customer{
			Name:  in.CustomerName,
			Phone: in.CustomerPhone,
			Email: in.CustomerEmail,
		})
		if err != nil {
			return err
		}

		b := &models.Booking{
			Reference:       ref,
			CustomerID:      customer.ID,
			ServiceID:       svc.ID,
			BookingDate:     date,
			StartTime:       iv.StartTime(),
			EndTime:         iv.EndTime(),
			StartMinute:     iv.Start,
			EndMinute:       iv.End,
			Status:          string(status),
			SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		}
		if status == domain.StatusConfirmed {
			now := uc.deps.Now()
			b.ConfirmedAt = &now
		}

		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}

		b.Customer = *customer
		b.Service = *svc

		out = &CreateBookingResult{
			Booking:      b,
			CustomerID:   customer.ID,
			ServicePrice: svc.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
