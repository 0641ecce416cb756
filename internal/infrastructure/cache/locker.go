package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
)

// DefaultWait tiempo máximo de espera por un candado ocupado.
const DefaultWait = 5 * time.Second

// RedisLocker candados distribuidos con redislock.
type RedisLocker struct {
	client *redislock.Client
	prefix string
	wait   time.Duration
}

// NewRedisLocker crea el locker. wait <= 0 usa DefaultWait.
func NewRedisLocker(client redis.UniversalClient, wait time.Duration) *RedisLocker {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &RedisLocker{client: redislock.New(client), prefix: "lock:", wait: wait}
}

// Obtain reintenta cada 100ms hasta wait; si no lo obtiene devuelve domain.ErrLockNotObtained.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (ports.Lock, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	lock, err := l.client.Obtain(waitCtx, l.prefix+key, ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, domain.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return redisLock{lock}, nil
}

type redisLock struct{ l *redislock.Lock }

func (r redisLock) Release(ctx context.Context) error {
	err := r.l.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

// LocalLocker candados por clave dentro del proceso (una sola instancia de la API).
// Cada clave vive en el mapa solo mientras alguien la tiene o la espera.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
	wait  time.Duration
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker crea el locker. wait <= 0 usa DefaultWait.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &LocalLocker{slots: map[string]*localSlot{}, wait: wait}
}

func (l *LocalLocker) acquire(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) drop(key string, s *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Obtain ignora ttl: el candado dura hasta Release.
func (l *LocalLocker) Obtain(ctx context.Context, key string, _ time.Duration) (ports.Lock, error) {
	s := l.acquire(key)
	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case s.ch <- struct{}{}:
		return &localLock{owner: l, key: key, slot: s}, nil
	case <-timer.C:
		l.drop(key, s)
		return nil, domain.ErrLockNotObtained
	case <-ctx.Done():
		l.drop(key, s)
		return nil, ctx.Err()
	}
}

// held claves con candado tomado o en espera.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

type localLock struct {
	owner *LocalLocker
	key   string
	slot  *localSlot
	once  sync.Once
}

func (l *localLock) Release(context.Context) error {
	l.once.Do(func() {
		<-l.slot.ch
		l.owner.drop(l.key, l.slot)
	})
	return nil
}

var (
	_ ports.Locker = (*RedisLocker)(nil)
	_ ports.Locker = (*LocalLocker)(nil)
)
