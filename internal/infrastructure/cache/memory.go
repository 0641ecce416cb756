package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
)

// sweepEvery intervalo mínimo entre barridos de claves vencidas.
const sweepEvery = time.Minute

// MemoryIdempotencyStore idempotencia en memoria del proceso. Las claves vencidas se borran al
// consultarlas y en un barrido que corre, como mucho, una vez por minuto al marcar.
type MemoryIdempotencyStore struct {
	mu        sync.Mutex
	keys      map[string]time.Time
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepEvery {
		s.sweep(now)
	}
	if exp, ok := s.keys[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.keys[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.keys, key)
		return false, nil
	}
	return true, nil
}

func (s *MemoryIdempotencyStore) sweep(now time.Time) {
	for k, exp := range s.keys {
		if !now.Before(exp) {
			delete(s.keys, k)
		}
	}
	s.lastSweep = now
}

func (s *MemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

var _ ports.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
