package plancache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"debtplan/internal/models"
)

const keyPrefix = "debtplan:plan:"

// Redis shares cached plans between server instances
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at addr
func NewRedis(addr string, ttl time.Duration) *Redis {
	return NewRedisClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisClient wraps an existing client
func NewRedisClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Ping checks that the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns a cached plan. Misses and decode failures both report false.
func (r *Redis) Get(ctx context.Context, key string) (*models.PaymentPlanDetail, bool) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Warning: plan cache read failed: %v", err)
		}
		return nil, false
	}

	var plan models.PaymentPlanDetail
	if err := json.Unmarshal(val, &plan); err != nil {
		log.Printf("Warning: discarding unreadable cached plan %s: %v", key, err)
		return nil, false
	}
	return &plan, true
}

// Set stores a plan with the cache TTL
func (r *Redis) Set(ctx context.Context, key string, plan *models.PaymentPlanDetail) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err()
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
