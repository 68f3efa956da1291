package repo

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/core/auth"
	"storefront/internal/domain"
	"storefront/internal/store"
)

type UserRepo struct {
	st     *store.Store
	hasher auth.PasswordHasher
}

func NewUserRepo(st *store.Store, h auth.PasswordHasher) *UserRepo {
	if h == nil {
		h = auth.PlainHasher{}
	}
	return &UserRepo{st: st, hasher: h}
}

func (r *UserRepo) find(ctx context.Context, pick func(*domain.Document) *domain.User) (*domain.User, error) {
	var out *domain.User
	err := r.st.View(ctx, func(d *domain.Document) error {
		if u := pick(d); u != nil {
			pub := u.Public()
			out = &pub
		}
		return nil
	})
	return out, absent(err)
}

// FindByEmail matches case-insensitively. The returned user never carries
// the password.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	return r.find(ctx, func(d *domain.Document) *domain.User { return d.UserByEmail(email) })
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(d *domain.Document) *domain.User { return d.UserByID(id) })
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.st.View(ctx, func(d *domain.Document) error {
		for _, u := range d.Users {
			out = append(out, u.Public())
		}
		return nil
	})
	if err = absent(err); err != nil {
		return nil, err
	}
	return out, nil
}

// Create fails with domain.ErrDuplicateEmail, leaving the document untouched,
// when the email is already registered in any letter case.
func (r *UserRepo) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	if !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: "must be buyer or seller"}
	}
	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created domain.User
	err = r.st.Update(ctx, func(d *domain.Document) error {
		if d.UserByEmail(email) != nil {
			return domain.ErrDuplicateEmail
		}
		created = domain.User{
			ID:               r.st.GenerateID("user"),
			Email:            email,
			Password:         hashed,
			Role:             role,
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			FirstNameEn:      in.FirstNameEn,
			LastNameEn:       in.LastNameEn,
			Phone:            in.Phone,
			City:             in.City,
			StoreName:        in.StoreName,
			StoreNameEn:      in.StoreNameEn,
			StoreDescription: in.StoreDescription,
			Verified:         false,
			CreatedAt:        r.st.Now(),
		}
		d.Users = append(d.Users, created)
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	pub := created.Public()
	return &pub, nil
}

// Update returns nil when id is unknown.
func (r *UserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Password != nil {
		hashed, err := r.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.Password = &hashed
	}
	var updated domain.User
	err := r.st.Update(ctx, func(d *domain.Document) error {
		u := d.UserByID(id)
		if u == nil {
			return errNoRecord
		}
		upd.Apply(u)
		updated = *u
		return nil
	})
	if err != nil {
		return nil, absent(err)
	}
	pub := updated.Public()
	return &pub, nil
}

// ValidateCredentials returns the user when the password verifies, nil otherwise.
func (r *UserRepo) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	var (
		found  *domain.User
		stored string
	)
	err := r.st.View(ctx, func(d *domain.Document) error {
		if u := d.UserByEmail(strings.TrimSpace(email)); u != nil {
			pub := u.Public()
			found, stored = &pub, u.Password
		}
		return nil
	})
	if err = absent(err); err != nil || found == nil {
		return nil, err
	}
	if !r.hasher.Verify(password, stored) {
		return nil, nil
	}
	return found, nil
}
