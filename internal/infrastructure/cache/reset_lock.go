package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetLock records which calendar days already had their daily reset so
// that several app replicas run it only once.
type ResetLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResetLock(client *redis.Client) *ResetLock {
	return &ResetLock{client: client, ttl: 36 * time.Hour}
}

func resetKey(day time.Time) string {
	return "daily_reset:" + day.Format(time.DateOnly)
}

// Acquire claims the reset for day. It reports false when another process
// already claimed it.
func (l *ResetLock) Acquire(ctx context.Context, day time.Time) (bool, error) {
	return l.client.SetNX(ctx, resetKey(day), time.Now().Unix(), l.ttl).Result()
}

// Release gives up the claim on day so a later attempt can run the reset.
func (l *ResetLock) Release(ctx context.Context, day time.Time) error {
	return l.client.Del(ctx, resetKey(day)).Err()
}
