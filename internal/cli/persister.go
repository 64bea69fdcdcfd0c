package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/studyaid-backend/internal/contentstore"
)

// OpenPersister builds the backend named by cfg.Backend. The returned close
// func releases any connection and is never nil.
func OpenPersister(ctx context.Context, cfg StoreConfig) (contentstore.Persister, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "memory":
		return contentstore.NewMemoryPersister(), noop, nil
	case "", "file":
		path := cfg.Path
		if strings.TrimSpace(path) == "" {
			path = defaultStorePath()
		}
		return contentstore.NewFilePersister(path), noop, nil
	case "redis":
		rdb, err := contentstore.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		return contentstore.NewRedisPersister(rdb, cfg.Key), func() { _ = rdb.Close() }, nil
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, noop, fmt.Errorf("store.dsn is required for the %s backend", cfg.Backend)
		}
		db, err := contentstore.OpenGorm(cfg.Backend, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		p, err := contentstore.NewGormPersister(db, cfg.Key)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return p, closeDB, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
