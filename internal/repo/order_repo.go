package repo

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/domain"
	"storefront/internal/store"
)

type OrderRepo struct{ st *store.Store }

func NewOrderRepo(st *store.Store) *OrderRepo { return &OrderRepo{st: st} }

func (r *OrderRepo) filter(ctx context.Context, keep func(domain.Order) bool) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.st.View(ctx, func(d *domain.Document) error {
		for _, o := range d.Orders {
			if keep(o) {
				out = append(out, o.Clone())
			}
		}
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.filter(ctx, func(o domain.Order) bool { return o.UserID == userID })
}

func (r *OrderRepo) ListForSeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return r.filter(ctx, func(o domain.Order) bool { return o.SellerID == sellerID })
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	err := r.st.View(ctx, func(d *domain.Document) error {
		if o := d.OrderByID(id); o != nil {
			c := o.Clone()
			out = &c
		}
		return nil
	})
	return out, absent(err)
}

// Create stores a pending order. A zero total is filled in from the items.
func (r *OrderRepo) Create(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	o := domain.Order{
		UserID:       in.UserID,
		SellerID:     in.SellerID,
		CustomerName: in.CustomerName,
		Items:        slices.Clone(in.Items),
		Total:        in.Total,
		Status:       domain.OrderPending,
	}
	if o.Total.IsZero() && len(o.Items) > 0 {
		o.Total = domain.LineTotal(o.Items)
	}
	err := r.st.Update(ctx, func(d *domain.Document) error {
		o.ID = r.st.GenerateID("order")
		o.CreatedAt = r.st.Now()
		d.Orders = append(d.Orders, o.Clone())
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return &o, nil
}

// UpdateStatus returns nil when id is unknown.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	var out domain.Order
	err := r.st.Update(ctx, func(d *domain.Document) error {
		o := d.OrderByID(id)
		if o == nil {
			return errNoRecord
		}
		now := r.st.Now()
		o.Status = status
		o.UpdatedAt = &now
		out = o.Clone()
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return &out, nil
}

// Checkout turns the user's cart into one pending order per seller, takes
// the ordered quantities out of stock and empties the cart, all in a single
// document write. Lines whose product is gone are dropped.
func (r *OrderRepo) Checkout(ctx context.Context, userID, customerName string) ([]domain.Order, error) {
	var placed []domain.Order
	err := r.st.Update(ctx, func(d *domain.Document) error {
		placed = nil
		bySeller := map[string]*domain.Order{}
		var sellers []string
		now := r.st.Now()
		for _, l := range d.CartFor(userID) {
			p := d.ProductByID(l.ProductID)
			if p == nil {
				continue
			}
			if l.Quantity > p.Stock {
				return &domain.ValidationError{
					Field:  "quantity",
					Reason: fmt.Sprintf("only %d of %s in stock", p.Stock, p.ID),
				}
			}
			p.Stock -= l.Quantity
			o, ok := bySeller[p.SellerID]
			if !ok {
				o = &domain.Order{
					ID:           r.st.GenerateID("order"),
					UserID:       userID,
					SellerID:     p.SellerID,
					CustomerName: customerName,
					Status:       domain.OrderPending,
					CreatedAt:    now,
				}
				bySeller[p.SellerID] = o
				sellers = append(sellers, p.SellerID)
			}
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  l.Quantity,
			})
		}
		if len(sellers) == 0 {
			return domain.ErrEmptyCart
		}
		for _, sid := range sellers {
			o := bySeller[sid]
			o.Total = domain.LineTotal(o.Items)
			d.Orders = append(d.Orders, o.Clone())
			placed = append(placed, o.Clone())
		}
		d.Cart = slices.DeleteFunc(d.Cart, func(l domain.CartLine) bool { return l.UserID == userID })
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return placed, nil
}
