package repo

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

type ReviewRepo struct{ st *store.Store }

func NewReviewRepo(st *store.Store) *ReviewRepo { return &ReviewRepo{st: st} }

// Add appends the review and refreshes the product's rating and reviewCount
// in the same write, so no reader sees one without the other.
func (r *ReviewRepo) Add(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating
	}
	var created domain.Review
	err := r.st.Update(ctx, func(d *domain.Document) error {
		created = domain.Review{
			ID:        r.st.GenerateID("review"),
			ProductID: in.ProductID,
			UserID:    in.UserID,
			UserName:  in.UserName,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: r.st.Now(),
		}
		d.Reviews = append(d.Reviews, created)
		d.RecomputeRating(in.ProductID)
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	return &created, nil
}

func (r *ReviewRepo) ListForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.st.View(ctx, func(d *domain.Document) error {
		for _, rv := range d.Reviews {
			if rv.ProductID == productID {
				out = append(out, rv)
			}
		}
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return out, nil
}
