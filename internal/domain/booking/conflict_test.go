package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
)

func TestIntervalOverlapsHalfOpen(t *testing.T) {
	existing := Interval{Start: 600, End: 645}

	assert.True(t, Interval{Start: 600, End: 645}.Overlaps(existing))
	assert.True(t, Interval{Start: 570, End: 615}.Overlaps(existing))
	assert.True(t, Interval{Start: 630, End: 675}.Overlaps(existing))
	assert.True(t, Interval{Start: 610, End: 620}.Overlaps(existing))
	assert.True(t, Interval{Start: 500, End: 700}.Overlaps(existing))

	assert.False(t, Interval{Start: 645, End: 690}.Overlaps(existing), "starts when existing ends")
	assert.False(t, Interval{Start: 555, End: 600}.Overlaps(existing), "ends when existing starts")
}

func TestCheckConflict(t *testing.T) {
	booked := []Interval{{Start: 540, End: 600}, {Start: 660, End: 705}}

	assert.NoError(t, CheckConflict(Interval{Start: 600, End: 660}, booked))
	assert.NoError(t, CheckConflict(Interval{Start: 600, End: 645}, nil))

	err := CheckConflict(Interval{Start: 630, End: 675}, booked)
	require.Error(t, err)
	assert.True(t, IsSlotConflict(err))
	assert.Equal(t, "11:00-11:45", httperr.DetailOf(err))
}

func TestNewInterval(t *testing.T) {
	iv, err := NewInterval("10:00", 45)
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 645}, iv)
	assert.Equal(t, "10:45", iv.EndTime())

	_, err = NewInterval("23:30", 45)
	assert.True(t, httperr.IsBusiness(err, CodeInvalidTimeFormat))

	_, err = NewInterval("10:00", 0)
	assert.True(t, httperr.IsBusiness(err, CodeInvalidTimeFormat))

	_, err = NewInterval("ten", 30)
	assert.True(t, httperr.IsBusiness(err, CodeInvalidTimeFormat))
}

func TestConflictScope(t *testing.T) {
	date, err := ParseDate("2026-01-18")
	require.NoError(t, err)

	scope, err := ParseConflictScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopePerService, scope)
	assert.Equal(t, "bookings:2026-01-18:service:2", scope.Key(date, 2))

	q := scope.Query(date, 2)
	require.NotNil(t, q.ServiceID)
	assert.Equal(t, uint(2), *q.ServiceID)

	scope, err = ParseConflictScope("PER_BUSINESS")
	require.NoError(t, err)
	assert.Equal(t, "bookings:2026-01-18:business", scope.Key(date, 2))
	assert.Equal(t, scope.Key(date, 1), scope.Key(date, 2))
	assert.Nil(t, scope.Query(date, 2).ServiceID)

	_, err = ParseConflictScope("per_staff")
	assert.Error(t, err)
}
