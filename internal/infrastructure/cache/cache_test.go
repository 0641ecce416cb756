package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/domain"
)

func TestMemoryIdempotency_SegundaMarcaEsDuplicada(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	ctx := context.Background()

	first, err := s.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	processed, _ := s.IsProcessed(ctx, "evt-1")
	assert.True(t, processed)
}

func TestMemoryIdempotency_ExpiraYForgetLibera(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = s.MarkProcessed(ctx, "k", time.Minute)
	now = now.Add(2 * time.Minute)
	ok, _ := s.MarkProcessed(ctx, "k", time.Minute)
	assert.True(t, ok, "la clave vencida se puede volver a marcar")

	require.NoError(t, s.Forget(ctx, "k"))
	ok, _ = s.MarkProcessed(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestLocalLocker_ExclusionPorClave(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	lock, err := l.Obtain(ctx, "orden-1", time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "orden-1", time.Second)
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	other, err := l.Obtain(ctx, "orden-2", time.Second)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lock.Release(ctx))
	again, err := l.Obtain(ctx, "orden-1", time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestLocalLocker_SerializaConcurrentes(t *testing.T) {
	l := NewLocalLocker(time.Second)
	ctx := context.Background()
	counter, maxInside, inside := 0, 0, 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := l.Obtain(ctx, "k", time.Second)
			if err != nil {
				return
			}
			mu.Lock()
			inside++
			maxInside = max(maxInside, inside)
			counter++
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			_ = lock.Release(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, counter)
	assert.Equal(t, 1, maxInside)
}

func TestMemoryIdempotency_BarridoBorraVencidas(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := s.MarkProcessed(ctx, k, time.Minute)
		require.NoError(t, err)
	}
	now = now.Add(5 * time.Minute)
	_, err := s.MarkProcessed(ctx, "d", time.Hour)
	require.NoError(t, err)

	assert.Len(t, s.keys, 1)
	assert.Contains(t, s.keys, "d")
}

func TestLocalLocker_LiberaLaClaveDelMapa(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	lock, err := l.Obtain(ctx, "orden-1", time.Second)
	require.NoError(t, err)
	_, err = l.Obtain(ctx, "orden-1", time.Second)
	require.ErrorIs(t, err, domain.ErrLockNotObtained)
	assert.Equal(t, 1, l.held())

	require.NoError(t, lock.Release(ctx))
	require.NoError(t, lock.Release(ctx), "liberar dos veces no falla")
	assert.Zero(t, l.held())

	again, err := l.Obtain(ctx, "orden-1", time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
	assert.Zero(t, l.held())
}
