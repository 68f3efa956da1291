package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PartialSeedGetsAllLists(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(`{"products":[{"id":"p1","price":"10"}]}`), &d))
	d.Normalize()

	b, err := json.Marshal(d)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"users", "products", "orders", "cart", "reviews"} {
		assert.Contains(t, raw, k)
	}
	assert.Equal(t, "[]", string(raw["users"]))
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(Product{ID: "p1", Price: decimal.RequireFromString("89.50")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":89.5`)

	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"price":299.99}`), &p))
	assert.Equal(t, "299.99", p.Price.StringFixed(2))
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12"}`), &p))
	assert.Equal(t, "12.00", p.Price.StringFixed(2))
}

func TestClone_IsDeep(t *testing.T) {
	img := "a.png"
	d := NewDocument()
	d.Users = append(d.Users, User{ID: "u1", ProfileImage: &img})
	d.Products = append(d.Products, Product{ID: "p1", Specs: map[string]any{"ram": "8GB"}})
	d.Orders = append(d.Orders, Order{ID: "o1", Items: []OrderItem{{ProductID: "p1", Quantity: 1}}})
	d.Cart = append(d.Cart, CartLine{ID: "c1", UserID: "u1", ProductID: "p1", Quantity: 1})

	c := d.Clone()
	*c.Users[0].ProfileImage = "b.png"
	c.Products[0].Specs["ram"] = "16GB"
	c.Orders[0].Items[0].Quantity = 9
	c.Cart[0].Quantity = 9

	assert.Equal(t, "a.png", *d.Users[0].ProfileImage)
	assert.Equal(t, "8GB", d.Products[0].Specs["ram"])
	assert.Equal(t, 1, d.Orders[0].Items[0].Quantity)
	assert.Equal(t, 1, d.Cart[0].Quantity)
}

func TestLookups(t *testing.T) {
	d := NewDocument()
	d.Users = []User{{ID: "u1", Email: "A@Example.com"}}
	d.Cart = []CartLine{
		{ID: "c1", UserID: "u1", ProductID: "p1"},
		{ID: "c2", UserID: "u2", ProductID: "p1"},
		{ID: "c3", UserID: "u1", ProductID: "p2"},
	}

	require.NotNil(t, d.UserByEmail("a@example.com"))
	assert.Nil(t, d.UserByID("nope"))
	assert.Equal(t, 2, d.CartIndex("u1", "p2"))
	assert.Equal(t, -1, d.CartIndex("u3", "p1"))
	assert.Len(t, d.CartFor("u1"), 2)
	assert.NotNil(t, d.CartFor("nobody"))
}

func TestAverageRating(t *testing.T) {
	cases := []struct {
		in   []int
		want float64
	}{
		{nil, 0},
		{[]int{4, 5}, 4.5},
		{[]int{5, 4, 4}, 4.3},
		{[]int{1, 2}, 1.5},
		{[]int{3, 3, 4, 4, 4, 4, 4, 4}, 3.8}, // 3.75 rounds up
		{[]int{5}, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AverageRating(c.in), "%v", c.in)
	}
}

func TestRecomputeRating(t *testing.T) {
	d := NewDocument()
	d.Products = []Product{{ID: "p1"}}
	d.Reviews = []Review{{ProductID: "p1", Rating: 4}, {ProductID: "p1", Rating: 5}, {ProductID: "p2", Rating: 1}}

	assert.True(t, d.RecomputeRating("p1"))
	assert.Equal(t, 4.5, d.Products[0].Rating)
	assert.Equal(t, 2, d.Products[0].ReviewCount)
	assert.False(t, d.RecomputeRating("p2"))
}

func TestProduct_Matches(t *testing.T) {
	p := Product{Name: "سماعات", NameEn: "Wireless Headphones", Category: "electronics"}
	assert.True(t, p.Matches("headphones"))
	assert.True(t, p.Matches("ELECTRO"))
	assert.True(t, p.Matches("سماعات"))
	assert.False(t, p.Matches("watch"))
}

func TestProductUpdate_ApplyLeavesUnsetFields(t *testing.T) {
	p := Product{ID: "p1", Name: "old", Price: decimal.NewFromInt(10), Stock: 3, Rating: 4.5}
	name := "new"
	stock := 0
	ProductUpdate{Name: &name, Stock: &stock}.Apply(&p)

	assert.Equal(t, "new", p.Name)
	assert.Equal(t, 0, p.Stock)
	assert.True(t, decimal.NewFromInt(10).Equal(p.Price))
	assert.Equal(t, 4.5, p.Rating)
}

func TestLineTotal(t *testing.T) {
	items := []OrderItem{
		{Price: decimal.RequireFromString("0.10"), Quantity: 3},
		{Price: decimal.RequireFromString("19.99"), Quantity: 2},
	}
	assert.Equal(t, "40.28", LineTotal(items).StringFixed(2))
}

func TestUser_PublicDropsPassword(t *testing.T) {
	u := User{ID: "u1", Password: "secret"}
	b, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}

func TestValidationError_IsErrValidation(t *testing.T) {
	var err error = &ValidationError{Field: "email", Reason: "required"}
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatus("pending").Valid())
	assert.True(t, OrderStatus("completed").Valid())
	assert.True(t, OrderStatus("cancelled").Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}
