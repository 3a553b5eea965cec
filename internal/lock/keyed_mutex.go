package lock

import (
	"context"
	"sync"
	"time"
)

type keyedEntry struct {
	sem      chan struct{}
	lastUsed time.Time
	mu       sync.Mutex
	dead     bool
}

// KeyedMutex is an in-process Locker holding one mutex per key. Idle keys
// are dropped by Sweep.
type KeyedMutex struct {
	entries sync.Map // map[string]*keyedEntry
	now     func() time.Time
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{now: time.Now}
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		v, _ := k.entries.LoadOrStore(key, &keyedEntry{sem: make(chan struct{}, 1)})
		e := v.(*keyedEntry)

		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		e.mu.Lock()
		dead := e.dead
		e.mu.Unlock()
		if dead {
			// swept while we waited; retry on the fresh entry
			<-e.sem
			continue
		}

		var once sync.Once
		return func() {
			once.Do(func() {
				e.mu.Lock()
				e.lastUsed = k.now()
				e.mu.Unlock()
				<-e.sem
			})
		}, nil
	}
}

// Sweep removes keys that are unlocked and idle for longer than idle.
// It returns the number of keys removed.
func (k *KeyedMutex) Sweep(idle time.Duration) int {
	cutoff := k.now().Add(-idle)
	removed := 0

	k.entries.Range(func(key, v any) bool {
		e := v.(*keyedEntry)

		select {
		case e.sem <- struct{}{}:
		default:
			return true // held
		}

		e.mu.Lock()
		if e.lastUsed.Before(cutoff) {
			e.dead = true
			k.entries.Delete(key)
			removed++
		}
		e.mu.Unlock()

		<-e.sem
		return true
	})

	return removed
}

// RunJanitor sweeps idle keys every interval until ctx is done.
func (k *KeyedMutex) RunJanitor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.Sweep(idle)
		}
	}
}
