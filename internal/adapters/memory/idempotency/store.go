package idempotency

import (
	"context"
	"sync"
	"time"

	clockport "github.com/cinedex/catalog-api/internal/ports/out/clock"
	"github.com/cinedex/catalog-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use.
//
// When a TTL is configured, records older than the TTL (by Record.CreatedAt) are
// treated as absent and dropped on the next Put.
type Store struct {
	mu sync.RWMutex
	m  map[idempotency.Fingerprint]idempotency.Record

	clk clockport.Clock
	ttl time.Duration
}

func NewStore() *Store {
	return &Store{
		m: make(map[idempotency.Fingerprint]idempotency.Record),
	}
}

// NewStoreWithTTL returns a store whose records expire ttl after their CreatedAt.
func NewStoreWithTTL(clk clockport.Clock, ttl time.Duration) *Store {
	s := NewStore()
	s.clk = clk
	s.ttl = ttl
	return s
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.m[fp]
	if !ok || s.expired(rec) {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.m {
		if s.expired(v) {
			delete(s.m, k)
		}
	}
	s.m[fp] = cloneRecord(rec)
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	if s.clk == nil || s.ttl <= 0 {
		return false
	}
	return s.clk.Now().Sub(rec.CreatedAt) > s.ttl
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}
