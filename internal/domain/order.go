package domain

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	SellerID     string          `json:"sellerId"`
	CustomerName string          `json:"customerName,omitempty"`
	Items        []OrderItem     `json:"items,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		o.UpdatedAt = &t
	}
	return o
}

type OrderInput struct {
	UserID       string          `json:"userId"`
	SellerID     string          `json:"sellerId"`
	CustomerName string          `json:"customerName"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// LineTotal is price times quantity for every item.
func LineTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type OrderRepository interface {
	Create(ctx context.Context, in OrderInput) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	ListForUser(ctx context.Context, userID string) ([]Order, error)
	ListForSeller(ctx context.Context, sellerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
	Checkout(ctx context.Context, userID, customerName string) ([]Order, error)
}
