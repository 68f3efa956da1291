package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPersist            = errors.New("persist document")
	ErrVersionConflict    = errors.New("document changed by another writer")
	ErrStoreUnavailable   = errors.New("store has no document")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidOrderStatus = errors.New("unknown order status")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrServerBusy         = errors.New("server busy")
	ErrTimeout            = errors.New("request timed out")
)

// ValidationError names the offending field and wraps ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }
func (e *ValidationError) Unwrap() error { return ErrValidation }
