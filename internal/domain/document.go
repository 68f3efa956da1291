package domain

import (
	"slices"
	"strings"
)

// Document is the whole application state, persisted as one JSON value.
type Document struct {
	Users    []User     `json:"users"`
	Products []Product  `json:"products"`
	Orders   []Order    `json:"orders"`
	Cart     []CartLine `json:"cart"`
	Reviews  []Review   `json:"reviews"`
}

func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces missing entity lists with empty ones so a partial seed
// still serializes with all five lists.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
	if d.Cart == nil {
		d.Cart = []CartLine{}
	}
	if d.Reviews == nil {
		d.Reviews = []Review{}
	}
}

// Clone returns a deep copy; mutating it never touches d.
func (d *Document) Clone() *Document {
	out := &Document{
		Users:    make([]User, len(d.Users)),
		Products: make([]Product, len(d.Products)),
		Orders:   make([]Order, len(d.Orders)),
		Cart:     slices.Clone(d.Cart),
		Reviews:  slices.Clone(d.Reviews),
	}
	for i, u := range d.Users {
		out.Users[i] = u
		if u.ProfileImage != nil {
			img := *u.ProfileImage
			out.Users[i].ProfileImage = &img
		}
	}
	for i, p := range d.Products {
		out.Products[i] = p.Clone()
	}
	for i, o := range d.Orders {
		out.Orders[i] = o.Clone()
	}
	out.Normalize()
	return out
}

func (d *Document) UserByEmail(email string) *User {
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) UserByID(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) ProductByID(id string) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

func (d *Document) OrderByID(id string) *Order {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return &d.Orders[i]
		}
	}
	return nil
}

// CartIndex returns the position of the (userID, productID) line or -1.
func (d *Document) CartIndex(userID, productID string) int {
	return slices.IndexFunc(d.Cart, func(l CartLine) bool {
		return l.UserID == userID && l.ProductID == productID
	})
}

func (d *Document) CartFor(userID string) []CartLine {
	out := []CartLine{}
	for _, l := range d.Cart {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

// RecomputeRating refreshes the derived rating fields of productID from its
// reviews. It reports false when the product no longer exists.
func (d *Document) RecomputeRating(productID string) bool {
	p := d.ProductByID(productID)
	if p == nil {
		return false
	}
	var ratings []int
	for _, r := range d.Reviews {
		if r.ProductID == productID {
			ratings = append(ratings, r.Rating)
		}
	}
	p.Rating = AverageRating(ratings)
	p.ReviewCount = len(ratings)
	return true
}
