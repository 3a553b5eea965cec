package booking

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type AvailabilityResult struct {
	Date    time.Time
	Service *models.Service
	Slots   []domain.Slot
}

type GetAvailability struct {
	deps      Deps
	generator domain.SlotGenerator
}

func NewGetAvailability(deps Deps) *GetAvailability {
	deps = deps.withDefaults()
	return &GetAvailability{
		deps:      deps,
		generator: domain.NewSlotGenerator(deps.Hours),
	}
}

// Execute lists the free starts of a service on a date. The list is a hint:
// a slot shown here can be taken before the client books it.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	if in.ServiceID == 0 {
		return nil, domain.ErrMissingField("service_id")
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, domain.ErrMissingField("date")
	}

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	svc, err := withStoreRetry(ctx, uc.deps.Retry, uc.deps.Log, func() (*models.Service, error) {
		return uc.deps.Repo.FindServiceByID(ctx, in.ServiceID)
	})
	if err != nil {
		return nil, err
	}

	out := &AvailabilityResult{Date: date, Service: svc, Slots: []domain.Slot{}}

	if _, open := uc.deps.Hours.For(date.Weekday()); !open {
		return out, nil
	}

	if cached, ok := uc.deps.Cache.Get(ctx, date, svc.ID); ok {
		out.Slots = cached
		return out, nil
	}

	booked, err := withStoreRetry(ctx, uc.deps.Retry, uc.deps.Log, func() ([]domain.Interval, error) {
		return uc.deps.Repo.FindOccupyingBookings(ctx, uc.deps.Scope.Query(date, svc.ID))
	})
	if err != nil {
		return nil, err
	}

	out.Slots = uc.generator.List(date, svc.DurationMinutes, booked)
	uc.deps.Cache.Set(ctx, date, svc.ID, out.Slots)

	return out, nil
}
