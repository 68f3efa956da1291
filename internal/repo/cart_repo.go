package repo

import (
	"context"
	"errors"
	"slices"

	"storefront/internal/domain"
	"storefront/internal/store"
)

type CartRepo struct{ st *store.Store }

func NewCartRepo(st *store.Store) *CartRepo { return &CartRepo{st: st} }

// GetForUser returns the raw lines, including ones whose product has since
// been deleted; see service.CartService for the filtered view.
func (r *CartRepo) GetForUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := r.st.View(ctx, func(d *domain.Document) error {
		out = d.CartFor(userID)
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return out, nil
}

// Add merges into the existing (user, product) line or starts a new one.
func (r *CartRepo) Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	var lines []domain.CartLine
	err := r.st.Update(ctx, func(d *domain.Document) error {
		if i := d.CartIndex(userID, productID); i >= 0 {
			d.Cart[i].Quantity += quantity
		} else {
			d.Cart = append(d.Cart, domain.CartLine{
				ID:        r.st.GenerateID("cart"),
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   r.st.Now(),
			})
		}
		lines = d.CartFor(userID)
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return lines, nil
}

// UpdateQuantity sets the line's quantity, dropping the line when quantity
// is zero or less. ok is false when there was no such line.
func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (lines []domain.CartLine, ok bool, err error) {
	err = r.st.Update(ctx, func(d *domain.Document) error {
		i := d.CartIndex(userID, productID)
		if i < 0 {
			return errNoRecord
		}
		if quantity <= 0 {
			d.Cart = slices.Delete(d.Cart, i, i+1)
		} else {
			d.Cart[i].Quantity = quantity
		}
		lines = d.CartFor(userID)
		return nil
	})
	if err != nil {
		return nil, false, absent(err)
	}
	return lines, true, nil
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := r.st.Update(ctx, func(d *domain.Document) error {
		i := d.CartIndex(userID, productID)
		if i < 0 {
			return errNoRecord
		}
		d.Cart = slices.Delete(d.Cart, i, i+1)
		lines = d.CartFor(userID)
		return nil
	})
	switch {
	case err == nil:
		return lines, nil
	case errors.Is(err, errNoRecord):
		return r.GetForUser(ctx, userID)
	}
	return nil, absent(err)
}

func (r *CartRepo) Clear(ctx context.Context, userID string) ([]domain.CartLine, error) {
	err := r.st.Update(ctx, func(d *domain.Document) error {
		d.Cart = slices.DeleteFunc(d.Cart, func(l domain.CartLine) bool { return l.UserID == userID })
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return []domain.CartLine{}, nil
}
