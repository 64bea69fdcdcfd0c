package contentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

// RedisPersister stores the snapshot as one JSON string value.
type RedisPersister struct {
	rdb goredis.UniversalClient
	key string
}

func NewRedisPersister(rdb goredis.UniversalClient, key string) *RedisPersister {
	if strings.TrimSpace(key) == "" {
		key = DefaultStorageKey
	}
	return &RedisPersister{rdb: rdb, key: key}
}

// DialRedis opens a client and verifies it with PING.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (p *RedisPersister) Load(ctx context.Context) (map[string]string, error) {
	b, err := p.rdb.Get(ctx, p.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", p.key, err)
	}
	return decodeSnapshot(b)
}

func (p *RedisPersister) Save(ctx context.Context, snapshot map[string]string) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := p.rdb.Set(ctx, p.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.key, err)
	}
	return nil
}
