package acronis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(fetch FetchFunc) (*TokenCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewTokenCache(NewMemoryTokenStore(), fetch)
	cache.now = clock.Now
	return cache, clock
}

func countingFetch(calls *atomic.Int32) FetchFunc {
	return func(context.Context) (*Token, error) {
		n := calls.Add(1)
		return &Token{AccessToken: fmt.Sprintf("tok-%d", n), TTL: time.Hour}, nil
	}
}

func TestToken_Stale(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &Token{AccessToken: "a", IssuedAt: issued, TTL: time.Hour}

	assert.False(t, tok.Stale(issued))
	assert.False(t, tok.Stale(issued.Add(time.Hour-RefreshMargin-time.Second)))
	assert.True(t, tok.Stale(issued.Add(time.Hour-RefreshMargin)))
	assert.True(t, (*Token)(nil).Stale(issued))
	assert.True(t, (&Token{}).Stale(issued))
}

func TestTokenCache_ReusesTokenWithinLifetime(t *testing.T) {
	var calls atomic.Int32
	cache, clock := newTestCache(countingFetch(&calls))
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)

	clock.Advance(time.Hour - RefreshMargin - time.Second)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenCache_RefreshesOnceAfterThreshold(t *testing.T) {
	var calls atomic.Int32
	cache, clock := newTestCache(countingFetch(&calls))
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)

	clock.Advance(time.Hour - RefreshMargin)
	second, err := cache.Get(ctx)
	require.NoError(t, err)
	third, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, third)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenCache_ConcurrentCallersShareRefresh(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	cache, _ := newTestCache(func(context.Context) (*Token, error) {
		calls.Add(1)
		<-release
		return &Token{AccessToken: "shared", TTL: time.Hour}, nil
	})

	var wg sync.WaitGroup
	tokens := make([]string, 20)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := cache.Get(context.Background())
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, tok := range tokens {
		assert.Equal(t, "shared", tok)
	}
}

func TestTokenCache_FetchErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	cache, _ := newTestCache(func(context.Context) (*Token, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("idp down")
		}
		return &Token{AccessToken: "ok", TTL: time.Hour}, nil
	})

	_, err := cache.Get(context.Background())
	require.EqualError(t, err, "idp down")

	tok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", tok)
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*Token, error) { return nil, errors.New("store down") }
func (failingStore) Save(context.Context, *Token) error { return errors.New("store down") }

func TestTokenCache_StoreFailureFallsBackToFetch(t *testing.T) {
	var calls atomic.Int32
	cache := NewTokenCache(failingStore{}, countingFetch(&calls))

	tok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenCache_CanceledCallerDoesNotFailSharedRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr atomic.Value
	cache, _ := newTestCache(func(ctx context.Context) (*Token, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			fetchErr.Store(err)
			return nil, err
		}
		return &Token{AccessToken: "shared", TTL: time.Hour}, nil
	})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Get(firstCtx)
		firstErr <- err
	}()
	<-started

	secondTok := make(chan string, 1)
	secondErr := make(chan error, 1)
	go func() {
		tok, err := cache.Get(context.Background())
		secondTok <- tok
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting on the refresh")
	}

	close(release)
	require.NoError(t, <-secondErr)
	assert.Equal(t, "shared", <-secondTok)
	assert.Nil(t, fetchErr.Load())
}

// flakyStore fails the first Load, then behaves like memory.
type flakyStore struct {
	MemoryTokenStore
	loads   atomic.Int32
	saves   atomic.Int32
	saveErr error
}

func (s *flakyStore) Load(ctx context.Context) (*Token, error) {
	if s.loads.Add(1) == 1 {
		return nil, errors.New("connection reset")
	}
	return s.MemoryTokenStore.Load(ctx)
}

func (s *flakyStore) Save(ctx context.Context, tok *Token) error {
	s.saves.Add(1)
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryTokenStore.Save(ctx, tok)
}

func TestTokenCache_SavesIssuedTokenAfterLoadError(t *testing.T) {
	var calls atomic.Int32
	store := &flakyStore{}
	cache := NewTokenCache(store, countingFetch(&calls))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), store.saves.Load())

	saved, err := store.MemoryTokenStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, saved.IssuedAt)
	assert.Equal(t, time.Hour, saved.TTL)
}

func TestTokenCache_SaveErrorStillReturnsToken(t *testing.T) {
	var calls atomic.Int32
	store := &flakyStore{saveErr: errors.New("read-only replica")}
	cache := NewTokenCache(store, countingFetch(&calls))

	tok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Nothing was persisted, so the next call fetches again.
	tok, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, int32(2), store.saves.Load())
}
