// Package kv holds the durable key-value backends the store persists into.
// Every backend offers a compare-and-swap Put keyed on a per-key version so
// two writers never silently overwrite each other.
package kv

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/database"
)

var (
	ErrNotFound        = errors.New("kv: key not found")
	ErrVersionConflict = errors.New("kv: version conflict")
)

// Entry is a stored value with the version it was written at. Versions start
// at 1; 0 means the key does not exist. A key recreated after Delete carries
// on from its last version, so a writer still holding a version from before
// the delete gets ErrVersionConflict instead of overwriting the new value.
type Entry struct {
	Value   []byte
	Version int64
}

type Storage interface {
	Get(ctx context.Context, key string) (Entry, error)
	// Put writes value if the key is currently at expectVersion and returns
	// the new version. expectVersion 0 requires the key to be absent.
	Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

type RedisOpts struct {
	Addr     string
	Password string
	DB       int
}

type Opts struct {
	Backend     string
	Dir         string
	Redis       RedisOpts
	DB          database.Opts
	AutoMigrate bool
}

func Open(ctx context.Context, o Opts) (Storage, error) {
	switch o.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(o.Dir)
	case BackendRedis:
		r := NewRedis(o.Redis.Addr, o.Redis.Password, o.Redis.DB)
		if err := r.RDB.Ping(ctx).Err(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return r, nil
	case BackendSQL:
		db, err := database.NewGorm(o.DB)
		if err != nil {
			return nil, fmt.Errorf("open sql: %w", err)
		}
		return NewSQL(db, o.AutoMigrate)
	default:
		return nil, fmt.Errorf("kv: unsupported backend %q", o.Backend)
	}
}
