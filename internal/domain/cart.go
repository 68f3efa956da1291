package domain

import (
	"context"
	"time"
)

// CartLine is keyed by (UserID, ProductID); a document never holds two lines
// for the same pair and never stores a quantity below one.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type CartRepository interface {
	GetForUser(ctx context.Context, userID string) ([]CartLine, error)
	Add(ctx context.Context, userID, productID string, quantity int) ([]CartLine, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) ([]CartLine, bool, error)
	Remove(ctx context.Context, userID, productID string) ([]CartLine, error)
	Clear(ctx context.Context, userID string) ([]CartLine, error)
}
