package domain

import "time"

// Session is the login record kept under its own storage key, apart from the document.
type Session struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
