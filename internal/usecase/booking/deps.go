package booking

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/cache"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/lock"
)

// Deps bundles the collaborators shared by the booking use cases.
type Deps struct {
	Repo   domain.Repository
	Locker lock.Locker
	Cache  cache.AvailabilityCache
	Audit  *audit.Dispatcher
	Log    *logrus.Logger

	Hours domain.BusinessHours
	Scope domain.ConflictScope
	Retry RetryPolicy

	// EnforceHours rejects bookings outside the opening window.
	EnforceHours bool
	// EmailCheck, when set, vets the optional customer email.
	EmailCheck func(email string) bool

	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = lock.NewKeyedMutex()
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Hours.Days == nil {
		d.Hours = domain.DefaultBusinessHours()
	}
	if d.Scope == "" {
		d.Scope = domain.ScopePerService
	}
	if d.Retry.Attempts == 0 {
		d.Retry = DefaultRetryPolicy()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}
