package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis stores a value under its key and the version under "<key>:version",
// both changed in one WATCH/MULTI transaction. Delete drops only the value;
// the version key stays behind as the tombstone.
type Redis struct {
	RDB *redis.Client
}

func NewRedis(addr, pass string, db int) *Redis {
	return &Redis{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func NewRedisFromClient(c *redis.Client) *Redis { return &Redis{RDB: c} }

func versionKey(key string) string { return key + ":version" }

func (r *Redis) Get(ctx context.Context, key string) (Entry, error) {
	vals, err := r.RDB.MGet(ctx, key, versionKey(key)).Result()
	if err != nil {
		return Entry{}, err
	}
	if vals[0] == nil {
		return Entry{}, ErrNotFound
	}
	raw, ok := vals[0].(string)
	if !ok {
		return Entry{}, fmt.Errorf("kv: unexpected redis value %T", vals[0])
	}
	var ver int64
	if s, ok := vals[1].(string); ok {
		if ver, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Entry{}, fmt.Errorf("kv: bad version for %s: %w", key, err)
		}
	}
	return Entry{Value: []byte(raw), Version: ver}, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	vk := versionKey(key)
	var next int64
	err := r.RDB.Watch(ctx, func(tx *redis.Tx) error {
		last, err := tx.Get(ctx, vk).Int64()
		if errors.Is(err, redis.Nil) {
			last = 0
		} else if err != nil {
			return err
		}
		live, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		cur := last
		if live == 0 {
			cur = 0
		}
		if cur != expectVersion {
			return ErrVersionConflict
		}
		next = last + 1
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, value, 0)
			p.Set(ctx, vk, next, 0)
			return nil
		})
		return err
	}, key, vk)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.RDB.Del(ctx, key).Err()
}

func (r *Redis) Close() error { return r.RDB.Close() }
