package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

func TestOccupyingStatuses(t *testing.T) {
	assert.True(t, StatusConfirmed.Occupies())
	assert.True(t, StatusCompleted.Occupies())
	assert.False(t, StatusPending.Occupies())
	assert.False(t, StatusCancelled.Occupies())
	assert.ElementsMatch(t, []string{"confirmed", "completed"}, OccupyingStatuses())
	assert.Equal(t, StatusConfirmed, InitialStatus())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("scheduled")
	assert.True(t, httperr.IsBusiness(err, CodeInvalidStatus))
}

func TestTransitions(t *testing.T) {
	now := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		from    Status
		apply   func(*models.Booking, time.Time) error
		want    Status
		allowed bool
	}{
		{"confirm pending", StatusPending, Confirm, StatusConfirmed, true},
		{"confirm confirmed", StatusConfirmed, Confirm, StatusConfirmed, false},
		{"complete confirmed", StatusConfirmed, Complete, StatusCompleted, true},
		{"complete pending", StatusPending, Complete, StatusPending, false},
		{"complete cancelled", StatusCancelled, Complete, StatusCancelled, false},
		{"cancel pending", StatusPending, Cancel, StatusCancelled, true},
		{"cancel confirmed", StatusConfirmed, Cancel, StatusCancelled, true},
		{"cancel completed", StatusCompleted, Cancel, StatusCompleted, false},
		{"cancel cancelled", StatusCancelled, Cancel, StatusCancelled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &models.Booking{Status: string(tc.from)}
			err := tc.apply(b, now)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				assert.True(t, httperr.IsBusiness(err, CodeInvalidState))
			}
			assert.Equal(t, string(tc.want), b.Status)
		})
	}
}

func TestCancelStampsTime(t *testing.T) {
	now := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusConfirmed)}

	require.NoError(t, Cancel(b, now))
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, now, *b.CancelledAt)
}
