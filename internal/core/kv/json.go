package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// GetJSON decodes the value at key into T. A missing key yields nil, 0, nil.
func GetJSON[T any](ctx context.Context, s Storage, key string) (*T, int64, error) {
	e, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var out T
	if err := json.Unmarshal(e.Value, &out); err != nil {
		return nil, e.Version, err
	}
	return &out, e.Version, nil
}

// Overwrite stores v at key regardless of its current version (last writer
// wins), retrying when another writer slips in between read and write.
func Overwrite(ctx context.Context, s Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	for range 3 {
		var ver int64
		e, err := s.Get(ctx, key)
		switch {
		case err == nil:
			ver = e.Version
		case !errors.Is(err, ErrNotFound):
			return err
		}
		if _, err = s.Put(ctx, key, b, ver); !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrVersionConflict
}
