package store

import (
	"context"

	"storefront/internal/core/kv"
	"storefront/internal/domain"
)

const DefaultSessionKey = "storefront_session"

// Sessions keeps the current login record under its own key so logging in or
// out never rewrites the document.
type Sessions struct {
	storage kv.Storage
	key     string
}

func NewSessions(storage kv.Storage, key string) *Sessions {
	if key == "" {
		key = DefaultSessionKey
	}
	return &Sessions{storage: storage, key: key}
}

// Get returns nil when nobody is logged in.
func (s *Sessions) Get(ctx context.Context) (*domain.Session, error) {
	sess, _, err := kv.GetJSON[domain.Session](ctx, s.storage, s.key)
	return sess, err
}

func (s *Sessions) Save(ctx context.Context, sess domain.Session) error {
	return kv.Overwrite(ctx, s.storage, s.key, sess)
}

func (s *Sessions) Delete(ctx context.Context) error {
	return s.storage.Delete(ctx, s.key)
}
