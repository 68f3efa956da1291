package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks a
// candidate against it. Swapping the hasher never touches repository code.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, stored string) bool
}

// PlainHasher stores passwords as given. It exists for parity with seed
// data that carries plaintext passwords; prefer BcryptHasher.
type PlainHasher struct{}

func (PlainHasher) Hash(pw string) (string, error) { return pw, nil }

func (PlainHasher) Verify(pw, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(pw), []byte(stored)) == 1
}

type BcryptHasher struct{ Cost int }

func (h BcryptHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(pw, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pw)) == nil
}

func NewHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "plain":
		return PlainHasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("auth: unknown password hasher %q", name)
	}
}
