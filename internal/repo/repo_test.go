package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/auth"
	"storefront/internal/core/kv"
	"storefront/internal/domain"
	"storefront/internal/store"
)

type fixture struct {
	ctx      context.Context
	mem      *kv.Memory
	st       *store.Store
	users    *UserRepo
	products *ProductRepo
	cart     *CartRepo
	orders   *OrderRepo
	reviews  *ReviewRepo
}

func seedDoc() *domain.Document {
	d := domain.NewDocument()
	d.Users = []domain.User{
		{ID: "seller-1", Email: "seller@example.com", Password: "Seller123", Role: domain.RoleSeller, FirstName: "Ahmed"},
		{ID: "seller-2", Email: "other@example.com", Password: "Other123", Role: domain.RoleSeller},
		{ID: "buyer-1", Email: "buyer@example.com", Password: "Buyer123", Role: domain.RoleBuyer, FirstName: "Sara"},
	}
	d.Products = []domain.Product{
		{ID: "p1", SellerID: "seller-1", Name: "سماعات", NameEn: "Headphones", Category: "electronics", Price: decimal.RequireFromString("299.99"), Stock: 10, Featured: true},
		{ID: "p2", SellerID: "seller-1", Name: "شاحن", NameEn: "Charger", Category: "accessories", Price: decimal.RequireFromString("89.50"), Stock: 3},
		{ID: "p3", SellerID: "seller-2", Name: "ساعة", NameEn: "Watch", Category: "electronics", Price: decimal.NewFromInt(549), Stock: 1, Featured: true},
	}
	return d
}

func newFixture(t *testing.T, seed *domain.Document) *fixture {
	t.Helper()
	mem := kv.NewMemory()
	var src store.SeedSource
	if seed != nil {
		src = store.SeedFunc(func(context.Context) (*domain.Document, error) { return seed.Clone(), nil })
	}
	st := store.New(store.Options{
		Storage: mem,
		Seed:    src,
		Now:     func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	f := &fixture{
		ctx:      context.Background(),
		mem:      mem,
		st:       st,
		users:    NewUserRepo(st, auth.PlainHasher{}),
		products: NewProductRepo(st),
		cart:     NewCartRepo(st),
		orders:   NewOrderRepo(st),
		reviews:  NewReviewRepo(st),
	}
	_, err := st.Initialize(f.ctx)
	require.NoError(t, err)
	return f
}

func (f *fixture) version(t *testing.T) int64 {
	t.Helper()
	e, err := f.mem.Get(f.ctx, store.DefaultDocumentKey)
	require.NoError(t, err)
	return e.Version
}

func TestRepos_BeforeAnyDocumentReturnEmptyResults(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.Options{Storage: kv.NewMemory()})

	ps, err := NewProductRepo(st).List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)

	u, err := NewUserRepo(st, nil).FindByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Nil(t, u)

	lines, err := NewCartRepo(st).GetForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	created, err := NewUserRepo(st, nil).Create(ctx, domain.UserInput{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	f := newFixture(t, seedDoc())

	u, err := f.users.Create(f.ctx, domain.UserInput{Email: " new@example.com ", Password: "Passw0rd", FirstName: "Nora"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Regexp(t, `^user-\d+-[0-9a-f]{9}$`, u.ID)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, domain.RoleBuyer, u.Role)
	assert.False(t, u.Verified)
	assert.Empty(t, u.Password)

	got, err := f.users.FindByEmail(f.ctx, "NEW@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.Password)

	got, err = f.users.FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nora", got.FirstName)

	missing, err := f.users.FindByID(f.ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := f.users.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUserRepo_DuplicateEmailLeavesDocumentUntouched(t *testing.T) {
	f := newFixture(t, seedDoc())
	before := f.version(t)

	u, err := f.users.Create(f.ctx, domain.UserInput{Email: "Buyer@Example.com", Password: "Whatever1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Nil(t, u)
	assert.Equal(t, before, f.version(t))

	all, _ := f.users.List(f.ctx)
	assert.Len(t, all, 3)
}

func TestUserRepo_RejectsUnknownRole(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.users.Create(f.ctx, domain.UserInput{Email: "x@example.com", Password: "p", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepo_ValidateCredentials(t *testing.T) {
	f := newFixture(t, seedDoc())

	u, err := f.users.ValidateCredentials(f.ctx, "buyer@example.com", "Buyer123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "buyer-1", u.ID)
	assert.Empty(t, u.Password)

	u, err = f.users.ValidateCredentials(f.ctx, "buyer@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.users.ValidateCredentials(f.ctx, "ghost@example.com", "Buyer123")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_BcryptHasherStoresHashes(t *testing.T) {
	f := newFixture(t, domain.NewDocument())
	f.users = NewUserRepo(f.st, auth.BcryptHasher{Cost: 4})

	_, err := f.users.Create(f.ctx, domain.UserInput{Email: "b@example.com", Password: "Secret123"})
	require.NoError(t, err)

	doc, err := f.st.Document(f.ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", doc.Users[0].Password)

	u, err := f.users.ValidateCredentials(f.ctx, "b@example.com", "Secret123")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestUserRepo_Update(t *testing.T) {
	f := newFixture(t, seedDoc())
	city := "Riyadh"
	pw := "NewPass123"

	u, err := f.users.Update(f.ctx, "buyer-1", domain.UserUpdate{City: &city, Password: &pw})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Riyadh", u.City)
	assert.Equal(t, "Sara", u.FirstName)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.Empty(t, u.Password)

	ok, err := f.users.ValidateCredentials(f.ctx, "buyer@example.com", "NewPass123")
	require.NoError(t, err)
	assert.NotNil(t, ok)

	before := f.version(t)
	u, err = f.users.Update(f.ctx, "ghost", domain.UserUpdate{City: &city})
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, before, f.version(t))
}

func TestProductRepo_Queries(t *testing.T) {
	f := newFixture(t, seedDoc())

	all, err := f.products.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySeller, err := f.products.ListBySeller(f.ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, bySeller, 2)

	byCat, err := f.products.ListByCategory(f.ctx, "electronics")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	featured, err := f.products.ListFeatured(f.ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	found, err := f.products.Search(f.ctx, "CHARG")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p2", found[0].ID)

	found, err = f.products.Search(f.ctx, "ساعة")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	p, err := f.products.Get(f.ctx, "p3")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Watch", p.NameEn)

	p, err = f.products.Get(f.ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepo_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t, seedDoc())

	p, err := f.products.Create(f.ctx, domain.ProductInput{
		SellerID: "seller-1",
		Name:     "Lamp",
		Price:    decimal.RequireFromString("15.25"),
		Stock:    4,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^prod-`, p.ID)
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.ReviewCount)
	assert.False(t, p.Featured)
	assert.Nil(t, p.UpdatedAt)

	price := decimal.RequireFromString("12")
	upd, err := f.products.Update(f.ctx, p.ID, domain.ProductUpdate{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, upd)
	assert.True(t, price.Equal(upd.Price))
	assert.Equal(t, "Lamp", upd.Name)
	require.NotNil(t, upd.UpdatedAt)

	neg := -1
	_, err = f.products.Update(f.ctx, p.ID, domain.ProductUpdate{Stock: &neg})
	assert.ErrorIs(t, err, domain.ErrValidation)

	missing, err := f.products.Update(f.ctx, "nope", domain.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := f.products.Delete(f.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.products.Delete(f.ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepo_CreateRejectsNegativePrice(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.products.Create(f.ctx, domain.ProductInput{SellerID: "seller-1", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartRepo_AddMergesAndZeroRemoves(t *testing.T) {
	f := newFixture(t, seedDoc())

	lines, err := f.cart.Add(f.ctx, "buyer-1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Regexp(t, `^cart-`, lines[0].ID)

	lines, err = f.cart.Add(f.ctx, "buyer-1", "p1", 3)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	lines, ok, err := f.cart.UpdateQuantity(f.ctx, "buyer-1", "p1", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCartRepo_LinesArePerUser(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.cart.Add(f.ctx, "buyer-1", "p1", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(f.ctx, "seller-2", "p1", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(f.ctx, "buyer-1", "p2", 1)
	require.NoError(t, err)

	mine, err := f.cart.GetForUser(f.ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	lines, err := f.cart.Clear(f.ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	theirs, err := f.cart.GetForUser(f.ctx, "seller-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestCartRepo_InvalidQuantityAndMissingLines(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.cart.Add(f.ctx, "buyer-1", "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	before := f.version(t)
	lines, ok, err := f.cart.UpdateQuantity(f.ctx, "buyer-1", "p1", 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, lines)

	_, err = f.cart.Add(f.ctx, "buyer-1", "p2", 1)
	require.NoError(t, err)
	lines, err = f.cart.Remove(f.ctx, "buyer-1", "p1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, before+1, f.version(t))

	lines, err = f.cart.Remove(f.ctx, "buyer-1", "p2")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReviewRepo_AddRecomputesRating(t *testing.T) {
	f := newFixture(t, seedDoc())

	_, err := f.reviews.Add(f.ctx, domain.ReviewInput{ProductID: "p1", UserID: "buyer-1", Rating: 4})
	require.NoError(t, err)
	r, err := f.reviews.Add(f.ctx, domain.ReviewInput{ProductID: "p1", UserID: "seller-2", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Regexp(t, `^review-`, r.ID)

	p, err := f.products.Get(f.ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 2, p.ReviewCount)

	list, err := f.reviews.ListForProduct(f.ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	none, err := f.reviews.ListForProduct(f.ctx, "p2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReviewRepo_RejectsOutOfRangeRating(t *testing.T) {
	f := newFixture(t, seedDoc())
	before := f.version(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := f.reviews.Add(f.ctx, domain.ReviewInput{ProductID: "p1", Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
	assert.Equal(t, before, f.version(t))
}

func TestReviewRepo_UnknownProductStillRecorded(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.reviews.Add(f.ctx, domain.ReviewInput{ProductID: "gone", Rating: 3})
	require.NoError(t, err)
	list, err := f.reviews.ListForProduct(f.ctx, "gone")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderRepo_CreateListUpdateStatus(t *testing.T) {
	f := newFixture(t, seedDoc())

	o, err := f.orders.Create(f.ctx, domain.OrderInput{
		UserID:   "buyer-1",
		SellerID: "seller-1",
		Items: []domain.OrderItem{
			{ProductID: "p1", Price: decimal.RequireFromString("299.99"), Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, "599.98", o.Total.StringFixed(2))

	mine, err := f.orders.ListForUser(f.ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	sellers, err := f.orders.ListForSeller(f.ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, sellers, 1)
	none, err := f.orders.ListForSeller(f.ctx, "seller-2")
	require.NoError(t, err)
	assert.Empty(t, none)

	upd, err := f.orders.UpdateStatus(f.ctx, o.ID, domain.OrderCompleted)
	require.NoError(t, err)
	require.NotNil(t, upd)
	assert.Equal(t, domain.OrderCompleted, upd.Status)
	assert.NotNil(t, upd.UpdatedAt)

	_, err = f.orders.UpdateStatus(f.ctx, o.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)

	missing, err := f.orders.UpdateStatus(f.ctx, "nope", domain.OrderCancelled)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_CheckoutSplitsBySeller(t *testing.T) {
	f := newFixture(t, seedDoc())
	for _, add := range []struct {
		pid string
		qty int
	}{{"p1", 2}, {"p2", 1}, {"p3", 1}} {
		_, err := f.cart.Add(f.ctx, "buyer-1", add.pid, add.qty)
		require.NoError(t, err)
	}
	_, err := f.cart.Add(f.ctx, "seller-2", "p1", 1)
	require.NoError(t, err)

	placed, err := f.orders.Checkout(f.ctx, "buyer-1", "Sara")
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, "seller-1", placed[0].SellerID)
	assert.Equal(t, "689.48", placed[0].Total.StringFixed(2))
	assert.Len(t, placed[0].Items, 2)
	assert.Equal(t, "seller-2", placed[1].SellerID)
	assert.Equal(t, "Sara", placed[1].CustomerName)

	p1, _ := f.products.Get(f.ctx, "p1")
	assert.Equal(t, 8, p1.Stock)
	p3, _ := f.products.Get(f.ctx, "p3")
	assert.Equal(t, 0, p3.Stock)

	lines, _ := f.cart.GetForUser(f.ctx, "buyer-1")
	assert.Empty(t, lines)
	others, _ := f.cart.GetForUser(f.ctx, "seller-2")
	assert.Len(t, others, 1)

	_, err = f.orders.Checkout(f.ctx, "buyer-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestOrderRepo_CheckoutOutOfStockChangesNothing(t *testing.T) {
	f := newFixture(t, seedDoc())
	_, err := f.cart.Add(f.ctx, "buyer-1", "p1", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(f.ctx, "buyer-1", "p3", 2)
	require.NoError(t, err)
	before := f.version(t)

	_, err = f.orders.Checkout(f.ctx, "buyer-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, f.version(t))

	p1, _ := f.products.Get(f.ctx, "p1")
	assert.Equal(t, 10, p1.Stock)
	lines, _ := f.cart.GetForUser(f.ctx, "buyer-1")
	assert.Len(t, lines, 2)
}
