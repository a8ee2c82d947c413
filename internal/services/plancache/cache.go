// Package plancache caches simulated payment plans keyed by their inputs.
package plancache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"debtplan/internal/models"
)

// Cache stores plans by key. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*models.PaymentPlanDetail, bool)
	Set(ctx context.Context, key string, plan *models.PaymentPlanDetail) error
}

// Key hashes the JSON of inputs into a short hex key
func Key(inputs ...any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8]) // First 8 bytes for a shorter key
}

type entry struct {
	plan     *models.PaymentPlanDetail
	cachedAt time.Time
}

// Memory is an in-process cache whose entries expire after a fixed TTL
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an in-process cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a cached plan if the key is present and fresh
func (m *Memory) Get(_ context.Context, key string) (*models.PaymentPlanDetail, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || m.now().Sub(e.cachedAt) >= m.ttl {
		return nil, false
	}
	return e.plan, true
}

// Set stores a plan and evicts anything already expired
func (m *Memory) Set(_ context.Context, key string, plan *models.PaymentPlanDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if now.Sub(e.cachedAt) >= m.ttl {
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry{plan: plan, cachedAt: now}
	return nil
}

// Len returns the number of stored entries, fresh or not
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
