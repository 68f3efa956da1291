package service

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CartItem struct {
	domain.CartLine
	Product domain.Product `json:"product"`
}

// CartView is a user's cart with each line joined to its product. Lines
// whose product was deleted are left out.
type CartView struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func (v *CartView) Contains(productID string) bool { return v.QuantityOf(productID) > 0 }

func (v *CartView) QuantityOf(productID string) int {
	for _, it := range v.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

type CartService struct {
	cart     domain.CartRepository
	products domain.ProductRepository
}

func NewCartService(cart domain.CartRepository, products domain.ProductRepository) *CartService {
	return &CartService{cart: cart, products: products}
}

func (s *CartService) Load(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return &CartView{Items: []CartItem{}, Total: decimal.Zero}, nil
	}
	lines, err := s.cart.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, lines)
}

func (s *CartService) enrich(ctx context.Context, lines []domain.CartLine) (*CartView, error) {
	v := &CartView{Items: []CartItem{}, Total: decimal.Zero}
	if len(lines) == 0 {
		return v, nil
	}
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		v.Items = append(v.Items, CartItem{CartLine: l, Product: p})
		v.Total = v.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		v.ItemCount += l.Quantity
	}
	return v, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if userID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if _, err := s.cart.Add(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Load(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if userID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if _, _, err := s.cart.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Load(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*CartView, error) {
	if userID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if _, err := s.cart.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Load(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if _, err := s.cart.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return &CartView{Items: []CartItem{}, Total: decimal.Zero}, nil
}
