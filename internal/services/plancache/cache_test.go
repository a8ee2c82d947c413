package plancache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"debtplan/internal/models"
)

func TestKeyIsStable(t *testing.T) {
	debts := []models.Debt{{ID: "a", Balance: 100, InterestRate: 5, MinimumPayment: 10}}

	k1 := Key(debts, 500.0, models.Avalanche, 4000.0)
	k2 := Key(debts, 500.0, models.Avalanche, 4000.0)
	if k1 != k2 {
		t.Errorf("Key not stable: %s != %s", k1, k2)
	}
	if len(k1) != 16 {
		t.Errorf("len(Key) = %d, want 16", len(k1))
	}

	if k3 := Key(debts, 500.0, models.Snowball, 4000.0); k3 == k1 {
		t.Error("different strategy produced the same key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(5 * time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	plan := &models.PaymentPlanDetail{Months: 12, TotalInterest: 340}
	if err := c.Set(ctx, "k", plan); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got, ok := c.Get(ctx, "k"); !ok || got.Months != 12 {
		t.Errorf("Get = %+v, %v; want cached plan", got, ok)
	}
	if _, ok := c.Get(ctx, "other"); ok {
		t.Error("Get(other) should miss")
	}

	now = now.Add(5 * time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Expected entry to expire after the TTL")
	}

	// Expired entries are swept on the next write
	if err := c.Set(ctx, "fresh", plan); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestRedisMissWhenUnreachable(t *testing.T) {
	// Port 1 on loopback refuses connections
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedisClient(client, time.Minute)
	defer r.Close()

	if _, ok := r.Get(context.Background(), "k"); ok {
		t.Error("Get should miss when Redis is unreachable")
	}
	if err := r.Set(context.Background(), "k", &models.PaymentPlanDetail{}); err == nil {
		t.Error("Set should fail when Redis is unreachable")
	}
}
