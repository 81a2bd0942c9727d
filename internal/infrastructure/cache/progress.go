package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxPutAttempts = 3

// ProgressCache keeps weekly aggregates in redis for read-heavy dashboards.
// Entries expire on their own; writers Put the aggregate they committed.
type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{client: client, ttl: ttl}
}

func weeklyKey(userID uuid.UUID, weekStart time.Time) string {
	return fmt.Sprintf("weekly:%s:%s", userID, weekStart.Format(time.DateOnly))
}

func (c *ProgressCache) Get(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyProgress, bool, error) {
	val, err := c.client.Get(ctx, weeklyKey(userID, weekStart)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p domain.WeeklyProgress
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// Fill stores p only when nothing is cached for its week yet. Readers use it
// so a value loaded before a concurrent commit cannot replace the newer one.
func (c *ProgressCache) Fill(ctx context.Context, p *domain.WeeklyProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, weeklyKey(p.UserID, p.WeekStart), data, c.ttl).Err()
}

// Put stores a committed aggregate unless the cached one already counts at
// least as many completions. Completions only ever grow a week's count.
func (c *ProgressCache) Put(ctx context.Context, p *domain.WeeklyProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	key := weeklyKey(p.UserID, p.WeekStart)

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var cached domain.WeeklyProgress
			if json.Unmarshal(cur, &cached) == nil && cached.HabitsCompleted >= p.HabitsCompleted {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}

	for range maxPutAttempts {
		err = c.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	// Still contended; drop the entry so the next read goes to the database.
	return c.client.Del(ctx, key).Err()
}

func (c *ProgressCache) Invalidate(ctx context.Context, userID uuid.UUID, weekStart time.Time) error {
	return c.client.Del(ctx, weeklyKey(userID, weekStart)).Err()
}
