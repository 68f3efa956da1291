package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewInput struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// AverageRating is the mean of ratings rounded half-up to one decimal place.
// An empty set rates 0.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings))))
	return mean.Round(1).InexactFloat64()
}

type ReviewRepository interface {
	Add(ctx context.Context, in ReviewInput) (*Review, error)
	ListForProduct(ctx context.Context, productID string) ([]Review, error)
}
