package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Velocity limits how often a caller may run an analysis inside a sliding window.
type Velocity struct {
	client   *redis.Client
	interval time.Duration
	limit    int
}

func NewVelocity(client *redis.Client, interval time.Duration, limit int) *Velocity {
	return &Velocity{client: client, interval: interval, limit: limit}
}

// Allow records a call for caller and reports whether it stays within the limit.
func (v *Velocity) Allow(ctx context.Context, caller string) (bool, error) {
	now := time.Now().UnixMilli()
	windowStart := float64(now - v.interval.Milliseconds())
	key := fmt.Sprintf("velocity:%s", caller)

	// Remove old entries
	if err := v.client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%f", windowStart)).Err(); err != nil {
		return false, err
	}

	member := fmt.Sprintf("%d-%d", now, rand.Intn(1000000))
	if err := v.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: member,
	}).Err(); err != nil {
		return false, err
	}

	count, err := v.client.ZCount(ctx, key, fmt.Sprintf("%f", windowStart), "+inf").Result()
	if err != nil {
		return false, err
	}

	v.client.Expire(ctx, key, v.interval)

	return count <= int64(v.limit), nil
}
