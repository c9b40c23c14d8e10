package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carelane/hospital-scheduling/internal/scheduling"
)

// bookingLocker guards the conflict-check-then-write critical section with a
// Redis key per (doctor, date). Two instances booking the same doctor's day
// serialize here; everything else proceeds in parallel.
type bookingLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookingLocker creates a scheduling.Locker backed by Redis SET NX.
func NewBookingLocker(client *redis.Client, ttl time.Duration) scheduling.Locker {
	return &bookingLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *bookingLocker) WithBookingLock(ctx context.Context, doctorID uuid.UUID, date scheduling.Date, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:booking:%s:%s", doctorID, date)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return scheduling.ErrBookingContended
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// unlockScript deletes the lock only if this holder still owns it, so a lock
// that expired and was taken over by another request is never released from
// here.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *bookingLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock: %w", err)
	}
	return nil
}
