// Package repo implements the entity repositories on top of store.Store.
// Every mutation is one store.Update: read, change a copy, persist, return a
// fresh view. Lookups that find nothing return nil or an empty slice, and so
// does every call made before the store has a document.
package repo

import (
	"errors"

	"storefront/internal/domain"
)

var (
	_ domain.UserRepository    = (*UserRepo)(nil)
	_ domain.ProductRepository = (*ProductRepo)(nil)
	_ domain.CartRepository    = (*CartRepo)(nil)
	_ domain.OrderRepository   = (*OrderRepo)(nil)
	_ domain.ReviewRepository  = (*ReviewRepo)(nil)
)

// errNoRecord aborts an Update without writing when its target is missing.
var errNoRecord = errors.New("record not found")

// absent turns "no document yet" and "no such record" into a nil error so
// callers receive the empty result instead.
func absent(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, errNoRecord) {
		return nil
	}
	return err
}
