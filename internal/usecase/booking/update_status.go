package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
)

type UpdateStatusInput struct {
	BookingID  uint
	Transition Transition
	ActorID    *uint
}

// ======================================================
// USE CASE
// ======================================================

type UpdateBookingStatus struct {
	deps Deps
}

func NewUpdateBookingStatus(deps Deps) *UpdateBookingStatus {
	return &UpdateBookingStatus{deps: deps.withDefaults()}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	apply, err := transitionFunc(in.Transition)
	if err != nil {
		return nil, err
	}

	b, err := withStoreRetry(ctx, uc.deps.Retry, uc.deps.Log, func() (*models.Booking, error) {
		return uc.attempt(ctx, in.BookingID, apply)
	})
	if err != nil {
		uc.deps.Log.
			WithField("booking_id", in.BookingID).
			WithField("transition", string(in.Transition)).
			WithError(err).
			Info("status change rejected")
		return nil, err
	}

	uc.deps.Cache.InvalidateDate(ctx, b.BookingDate)

	uc.deps.Audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "booking_" + string(in.Transition),
		Entity:   "booking",
		EntityID: audit.Ptr(b.ID),
		Metadata: map[string]any{"status": b.Status},
	})

	return b, nil
}

func (uc *UpdateBookingStatus) attempt(
	ctx context.Context,
	id uint,
	apply func(*models.Booking, time.Time) error,
) (*models.Booking, error) {
	repo := uc.deps.Repo

	current, err := repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	// Fail fast before taking any lock.
	if err := apply(cloneBooking(current), uc.deps.Now()); err != nil {
		return nil, err
	}

	key := uc.deps.Scope.Key(current.BookingDate, current.ServiceID)
	release, err := uc.deps.Locker.Acquire(ctx, key)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	defer release()

	var out *models.Booking

	err = repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.LockScope(ctx, key); err != nil {
			return err
		}

		b, err := tx.GetBooking(ctx, id)
		if err != nil {
			return err
		}

		wasOccupying := domain.Status(b.Status).Occupies()
		if err := apply(b, uc.deps.Now()); err != nil {
			return err
		}

		// A booking entering the calendar is checked like a new one.
		if !wasOccupying && domain.Status(b.Status).Occupies() {
			existing, err := tx.FindOccupyingBookings(ctx, uc.deps.Scope.Query(b.BookingDate, b.ServiceID))
			if err != nil {
				return err
			}
			iv := domain.Interval{Start: b.StartMinute, End: b.EndMinute}
			if err := domain.CheckConflict(iv, existing); err != nil {
				return err
			}
		}

		if err := tx.SaveBooking(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func transitionFunc(tr Transition) (func(*models.Booking, time.Time) error, error) {
	switch tr {
	case TransitionConfirm:
		return domain.Confirm, nil
	case TransitionComplete:
		return domain.Complete, nil
	case TransitionCancel:
		return domain.Cancel, nil
	}
	return nil, domain.ErrInvalidStatus(string(tr))
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}
