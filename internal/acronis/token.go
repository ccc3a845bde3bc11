package acronis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// RefreshMargin is how long before its declared expiry a token counts as stale.
const RefreshMargin = 300 * time.Second

// Token is a cached bearer token. It is replaced wholesale on refresh.
type Token struct {
	AccessToken string        `json:"access_token"`
	IssuedAt    time.Time     `json:"issued_at"`
	TTL         time.Duration `json:"ttl"`
}

// Stale reports whether t is missing or expires within RefreshMargin of now.
func (t *Token) Stale(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return !now.Before(t.IssuedAt.Add(t.TTL - RefreshMargin))
}

// TokenStore holds the single token slot. Load returns nil, nil when empty.
type TokenStore interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, tok *Token) error
}

// MemoryTokenStore keeps the slot in process memory.
type MemoryTokenStore struct {
	mu  sync.Mutex
	tok *Token
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, tok *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	return nil
}

// FetchFunc retrieves a fresh token from the identity endpoint. IssuedAt is
// set by the cache.
type FetchFunc func(ctx context.Context) (*Token, error)

// TokenCache hands out the stored token and refreshes it when stale.
// Concurrent callers that see a stale token in the same process share one
// refresh. Replicas sharing a Redis store may still refresh independently;
// the last write wins.
type TokenCache struct {
	store TokenStore
	fetch FetchFunc
	now   func() time.Time
	group singleflight.Group
}

func NewTokenCache(store TokenStore, fetch FetchFunc) *TokenCache {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	return &TokenCache{store: store, fetch: fetch, now: time.Now}
}

// Get returns a valid access token, refreshing at most once per stale window.
// The shared refresh runs detached from any single caller's cancellation;
// each caller stops waiting when its own context is done.
func (c *TokenCache) Get(ctx context.Context) (string, error) {
	if tok := c.load(ctx); !tok.Stale(c.now()) {
		return tok.AccessToken, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("token", func() (any, error) {
		// Another flight may have refreshed while this caller waited.
		if tok := c.load(flightCtx); !tok.Stale(c.now()) {
			return tok, nil
		}

		tok, err := c.fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		tok.IssuedAt = c.now()
		if err := c.store.Save(flightCtx, tok); err != nil {
			zerolog.Ctx(flightCtx).Warn().Err(err).Msg("failed to persist acronis token")
		}
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).AccessToken, nil
	}
}

func (c *TokenCache) load(ctx context.Context) *Token {
	tok, err := c.store.Load(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to load cached acronis token")
		return nil
	}
	return tok
}
