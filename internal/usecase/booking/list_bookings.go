package booking

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ListBookingsInput struct {
	Status    string
	From      string
	To        string
	ServiceID uint
	Limit     int
}

type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps.withDefaults()}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]models.Booking, error) {

	f := domain.BookingFilter{
		ServiceID: in.ServiceID,
		Limit:     in.Limit,
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	if s := strings.TrimSpace(in.From); s != "" {
		from, err := domain.ParseDate(s)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}

	if s := strings.TrimSpace(in.To); s != "" {
		to, err := domain.ParseDate(s)
		if err != nil {
			return nil, err
		}
		f.To = &to
	}

	switch {
	case f.Limit <= 0:
		f.Limit = defaultListLimit
	case f.Limit > maxListLimit:
		f.Limit = maxListLimit
	}

	return withStoreRetry(ctx, uc.deps.Retry, uc.deps.Log, func() ([]models.Booking, error) {
		return uc.deps.Repo.ListBookings(ctx, f)
	})
}
