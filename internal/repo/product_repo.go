package repo

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

type ProductRepo struct{ st *store.Store }

func NewProductRepo(st *store.Store) *ProductRepo { return &ProductRepo{st: st} }

func (r *ProductRepo) filter(ctx context.Context, keep func(domain.Product) bool) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.st.View(ctx, func(d *domain.Document) error {
		for _, p := range d.Products {
			if keep(p) {
				out = append(out, p.Clone())
			}
		}
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.filter(ctx, func(domain.Product) bool { return true })
}

func (r *ProductRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	return r.filter(ctx, func(p domain.Product) bool { return p.SellerID == sellerID })
}

func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.filter(ctx, func(p domain.Product) bool { return p.Category == category })
}

func (r *ProductRepo) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return r.filter(ctx, func(p domain.Product) bool { return p.Featured })
}

// Search is a case-insensitive substring match over both names, both
// descriptions and the category; matching any one of them is enough.
func (r *ProductRepo) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return r.filter(ctx, func(p domain.Product) bool { return p.Matches(query) })
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var out *domain.Product
	err := r.st.View(ctx, func(d *domain.Document) error {
		if p := d.ProductByID(id); p != nil {
			c := p.Clone()
			out = &c
		}
		return nil
	})
	return out, absent(err)
}

func validateProduct(p domain.Product) error {
	if p.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &domain.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

func (r *ProductRepo) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p := domain.Product{
		SellerID:      in.SellerID,
		Name:          in.Name,
		NameEn:        in.NameEn,
		Description:   in.Description,
		DescriptionEn: in.DescriptionEn,
		Category:      in.Category,
		Brand:         in.Brand,
		Price:         in.Price,
		Stock:         in.Stock,
		Image:         in.Image,
		Specs:         in.Specs,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	err := r.st.Update(ctx, func(d *domain.Document) error {
		p.ID = r.st.GenerateID("prod")
		p.Rating, p.ReviewCount, p.Featured = 0, 0, false
		p.CreatedAt = r.st.Now()
		d.Products = append(d.Products, p.Clone())
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return &p, nil
}

// Update returns nil when id is unknown.
func (r *ProductRepo) Update(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	var out domain.Product
	err := r.st.Update(ctx, func(d *domain.Document) error {
		p := d.ProductByID(id)
		if p == nil {
			return errNoRecord
		}
		next := p.Clone()
		upd.Apply(&next)
		if err := validateProduct(next); err != nil {
			return err
		}
		now := r.st.Now()
		next.UpdatedAt = &now
		*p = next
		out = next.Clone()
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return &out, nil
}

// Delete reports whether a product was removed. Cart lines and reviews that
// point at it stay; readers skip them.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	err := r.st.Update(ctx, func(d *domain.Document) error {
		for i := range d.Products {
			if d.Products[i].ID == id {
				d.Products = append(d.Products[:i], d.Products[i+1:]...)
				return nil
			}
		}
		return errNoRecord
	})
	if err != nil {
		return false, absent(err)
	}
	return true, nil
}
