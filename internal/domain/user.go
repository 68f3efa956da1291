package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool { return r == RoleBuyer || r == RoleSeller }

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"password,omitempty"` // stored form, see auth.PasswordHasher
	Role             Role      `json:"role"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	FirstNameEn      string    `json:"firstNameEn,omitempty"`
	LastNameEn       string    `json:"lastNameEn,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	City             string    `json:"city,omitempty"`
	StoreName        string    `json:"storeName,omitempty"`
	StoreNameEn      string    `json:"storeNameEn,omitempty"`
	StoreDescription string    `json:"storeDescription,omitempty"`
	ProfileImage     *string   `json:"profileImage"`
	Verified         bool      `json:"verified"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Public returns a copy safe to hand to callers: the password is never part of it.
func (u User) Public() User {
	u.Password = ""
	if u.ProfileImage != nil {
		img := *u.ProfileImage
		u.ProfileImage = &img
	}
	return u
}

func (u User) IsSeller() bool { return u.Role == RoleSeller }
func (u User) IsBuyer() bool  { return u.Role == RoleBuyer }

// UserInput is what registration supplies; id, verified and createdAt are assigned.
type UserInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             Role   `json:"role"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	FirstNameEn      string `json:"firstNameEn"`
	LastNameEn       string `json:"lastNameEn"`
	Phone            string `json:"phone"`
	City             string `json:"city"`
	StoreName        string `json:"storeName"`
	StoreNameEn      string `json:"storeNameEn"`
	StoreDescription string `json:"storeDescription"`
}

// UserUpdate lists the profile fields a user may change. Nil means untouched.
type UserUpdate struct {
	Password         *string `json:"password"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	FirstNameEn      *string `json:"firstNameEn"`
	LastNameEn       *string `json:"lastNameEn"`
	Phone            *string `json:"phone"`
	City             *string `json:"city"`
	StoreName        *string `json:"storeName"`
	StoreNameEn      *string `json:"storeNameEn"`
	StoreDescription *string `json:"storeDescription"`
	ProfileImage     *string `json:"profileImage"`
}

func (p UserUpdate) Apply(u *User) {
	set(&u.Password, p.Password)
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.FirstNameEn, p.FirstNameEn)
	set(&u.LastNameEn, p.LastNameEn)
	set(&u.Phone, p.Phone)
	set(&u.City, p.City)
	set(&u.StoreName, p.StoreName)
	set(&u.StoreNameEn, p.StoreNameEn)
	set(&u.StoreDescription, p.StoreDescription)
	if p.ProfileImage != nil {
		img := *p.ProfileImage
		u.ProfileImage = &img
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, in UserInput) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	ValidateCredentials(ctx context.Context, email, password string) (*User, error)
}
