package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
)

func TestDateKey(t *testing.T) {
	d := time.Date(2026, 1, 18, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "availability:2026-01-18", dateKey(d))
}

func TestNoopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	d := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	var c AvailabilityCache = Noop{}
	c.Set(ctx, d, 1, []booking.Slot{{Start: "09:00", End: "09:30", Available: true}})

	slots, ok := c.Get(ctx, d, 1)
	assert.False(t, ok)
	assert.Nil(t, slots)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestNewRedisAvailabilityDefaultTTL(t *testing.T) {
	c := NewRedisAvailability(nil, 0, nil)
	assert.Equal(t, 30*time.Second, c.ttl)
}
