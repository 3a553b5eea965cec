package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus(s)
}

// Occupies reports whether a booking in this status blocks the calendar.
func (s Status) Occupies() bool {
	return s == StatusConfirmed || s == StatusCompleted
}

// OccupyingStatuses is the SQL-friendly list of blocking statuses.
func OccupyingStatuses() []string {
	return []string{string(StatusConfirmed), string(StatusCompleted)}
}

// InitialStatus is the status written by the public creation path.
func InitialStatus() Status {
	return StatusConfirmed
}

// ===============================
// Transitions
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return ErrInvalidState
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return ErrInvalidState
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return ErrInvalidState
	}
	return nil
}

// Confirm does not re-check conflicts; callers must run CheckConflict under
// the scope lock first.
func Confirm(b *models.Booking, now time.Time) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}
