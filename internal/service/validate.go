package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
)

const MinPasswordLen = 8

var validate = validator.New()

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &domain.ValidationError{Field: "email", Reason: "required"}
	}
	if validate.Var(email, "email") != nil {
		return &domain.ValidationError{Field: "email", Reason: "invalid format"}
	}
	return nil
}

// validatePassword enforces the registration policy: at least eight
// characters mixing ASCII upper case, lower case and digits.
func validatePassword(pw string) error {
	if pw == "" {
		return &domain.ValidationError{Field: "password", Reason: "required"}
	}
	if len([]rune(pw)) < MinPasswordLen {
		return &domain.ValidationError{Field: "password", Reason: "too short"}
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return &domain.ValidationError{Field: "password", Reason: "needs upper, lower and digit"}
	}
	return nil
}
