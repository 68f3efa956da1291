package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/transport/http/ez"
)

type productQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Seller   string `form:"seller"`
	Featured bool   `form:"featured"`
}

func (h *Handler) mountCatalog(public, authed *gin.RouterGroup) {
	products := h.app.Products

	ez.RegisterAction(public, ez.Action[productQuery, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *productQuery) ([]domain.Product, error) {
			ctx := c.Request.Context()
			switch {
			case in.Q != "":
				return products.Search(ctx, in.Q)
			case in.Category != "":
				return products.ListByCategory(ctx, in.Category)
			case in.Seller != "":
				return products.ListBySeller(ctx, in.Seller)
			case in.Featured:
				return products.ListFeatured(ctx)
			}
			return products.List(ctx)
		},
	})

	ez.RegisterAction(public, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			p, err := products.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, ez.NotFound("product not found")
			}
			return p, nil
		},
	})

	seller := []string{string(domain.RoleSeller)}

	ez.RegisterAction(authed, ez.Action[domain.ProductInput, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  seller,
		Handler: func(c *gin.Context, in *domain.ProductInput) (*domain.Product, error) {
			in.SellerID = ez.UserID(c)
			return products.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(authed, ez.Action[domain.ProductUpdate, *domain.Product]{
		Method: http.MethodPatch,
		Path:   "/products/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  seller,
		Handler: func(c *gin.Context, in *domain.ProductUpdate) (*domain.Product, error) {
			if err := h.ownProduct(c); err != nil {
				return nil, err
			}
			return products.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  seller,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.ownProduct(c); err != nil {
				return nil, err
			}
			ok, err := products.Delete(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return gin.H{"deleted": ok}, nil
		},
	})
}

func (h *Handler) ownProduct(c *gin.Context) error {
	p, err := h.app.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if p == nil {
		return ez.NotFound("product not found")
	}
	if p.SellerID != ez.UserID(c) {
		return ez.Forbidden("not your product")
	}
	return nil
}
