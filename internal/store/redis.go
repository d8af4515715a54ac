package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// countTTL keeps daily counters from accumulating forever.
const countTTL = 14 * 24 * time.Hour

// Redis wraps the redis client and the live daily-count cache the worker
// maintains. Counters are advisory; the SQL store stays the source of
// truth.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

func countKey(date string) string {
	return "attendance:counts:" + date
}

// IncrDailyCount bumps the live counter for (date, subject).
func (r *Redis) IncrDailyCount(ctx context.Context, date, subject string) error {
	key := countKey(date)
	if err := r.Client.HIncrBy(ctx, key, subject, 1).Err(); err != nil {
		return err
	}
	return r.Client.Expire(ctx, key, countTTL).Err()
}

// DailyCounts returns the live per-subject counters for a date.
func (r *Redis) DailyCounts(ctx context.Context, date string) (map[string]int, error) {
	vals, err := r.Client.HGetAll(ctx, countKey(date)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(vals))
	for subject, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		out[subject] = n
	}
	return out, nil
}
