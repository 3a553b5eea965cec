package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
)

// AvailabilityCache keeps computed slot lists per (date, service). It is a
// hint only; creation always re-checks against the store.
type AvailabilityCache interface {
	Get(ctx context.Context, date time.Time, serviceID uint) ([]booking.Slot, bool)
	Set(ctx context.Context, date time.Time, serviceID uint, slots []booking.Slot)
	InvalidateDate(ctx context.Context, date time.Time)
	InvalidateAll(ctx context.Context)
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, time.Time, uint) ([]booking.Slot, bool) { return nil, false }
func (Noop) Set(context.Context, time.Time, uint, []booking.Slot)        {}
func (Noop) InvalidateDate(context.Context, time.Time)                   {}
func (Noop) InvalidateAll(context.Context)                               {}

// RedisAvailability stores one hash per date ("availability:2026-01-18")
// with a field per service id, so a write invalidates the whole date at once.
type RedisAvailability struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisAvailability(client *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisAvailability {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisAvailability{client: client, ttl: ttl, log: log}
}

func dateKey(date time.Time) string {
	return "availability:" + booking.FormatDate(date)
}

func (r *RedisAvailability) Get(ctx context.Context, date time.Time, serviceID uint) ([]booking.Slot, bool) {
	raw, err := r.client.HGet(ctx, dateKey(date), strconv.FormatUint(uint64(serviceID), 10)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WithError(err).Warn("availability cache read failed")
		}
		return nil, false
	}

	var slots []booking.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (r *RedisAvailability) Set(ctx context.Context, date time.Time, serviceID uint, slots []booking.Slot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := dateKey(date)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatUint(uint64(serviceID), 10), raw)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.WithError(err).Warn("availability cache write failed")
	}
}

func (r *RedisAvailability) InvalidateDate(ctx context.Context, date time.Time) {
	if err := r.client.Del(ctx, dateKey(date)).Err(); err != nil {
		r.log.WithError(err).Warn("availability cache invalidation failed")
	}
}

// InvalidateAll drops every cached date, e.g. after a service duration change.
func (r *RedisAvailability) InvalidateAll(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, "availability:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.WithError(err).Warn("availability cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		r.log.WithError(err).Warn("availability cache scan failed")
	}
}
