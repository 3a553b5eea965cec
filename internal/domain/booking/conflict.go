package booking

import (
	"fmt"
	"strings"
	"time"
)

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds the span occupied by a service of the given duration
// starting at hm. The end must not cross midnight.
func NewInterval(hm string, durationMinutes int) (Interval, error) {
	start, err := ToMinutes(hm)
	if err != nil {
		return Interval{}, err
	}
	if durationMinutes <= 0 {
		return Interval{}, ErrInvalidTimeFormat(fmt.Sprintf("duration %d", durationMinutes))
	}
	end := start + durationMinutes
	if end >= MinutesPerDay {
		return Interval{}, ErrInvalidTimeFormat(fmt.Sprintf("%s + %d min crosses midnight", hm, durationMinutes))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps uses the half-open rule: touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

func (i Interval) StartTime() string { return formatMinutes(i.Start) }
func (i Interval) EndTime() string   { return formatMinutes(i.End) }

func (i Interval) String() string {
	return i.StartTime() + "-" + i.EndTime()
}

// CheckConflict is the authoritative accept/reject decision for a candidate
// against the occupying bookings of its scope.
func CheckConflict(candidate Interval, existing []Interval) error {
	for _, b := range existing {
		if candidate.Overlaps(b) {
			return ErrSlotConflict(b)
		}
	}
	return nil
}

// ===============================
// Conflict scope
// ===============================

type ConflictScope string

const (
	ScopePerService  ConflictScope = "per_service"
	ScopePerBusiness ConflictScope = "per_business"
)

func ParseConflictScope(s string) (ConflictScope, error) {
	switch ConflictScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopePerService:
		return ScopePerService, nil
	case ScopePerBusiness:
		return ScopePerBusiness, nil
	}
	return "", fmt.Errorf("unknown conflict scope %q", s)
}

// Key identifies the set of bookings that compete with a booking of
// serviceID on date. Writers serialize on this key.
func (s ConflictScope) Key(date time.Time, serviceID uint) string {
	if s == ScopePerBusiness {
		return "bookings:" + FormatDate(date) + ":business"
	}
	return fmt.Sprintf("bookings:%s:service:%d", FormatDate(date), serviceID)
}

// Query returns the occupancy query that reads the competing bookings.
func (s ConflictScope) Query(date time.Time, serviceID uint) OccupancyQuery {
	q := OccupancyQuery{Date: DateOnly(date)}
	if s != ScopePerBusiness {
		id := serviceID
		q.ServiceID = &id
	}
	return q
}
