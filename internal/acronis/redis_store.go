package acronis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultTokenKey is the Redis key holding the shared token.
const DefaultTokenKey = "clinicguard:acronis:token"

// RedisTokenStore shares the token slot between API replicas. The key expires
// together with the token.
type RedisTokenStore struct {
	rdb *redis.Client
	key string
}

func NewRedisTokenStore(rdb *redis.Client, key string) *RedisTokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisTokenStore{rdb: rdb, key: key}
}

func (s *RedisTokenStore) Load(ctx context.Context) (*Token, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return &tok, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, tok *Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, tok.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
