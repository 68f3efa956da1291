package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/transport/http/ez"
)

type statusIn struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) mountOrders(authed *gin.RouterGroup) {
	orders := h.app.Orders
	seller := []string{string(domain.RoleSeller)}

	ez.RegisterAction(authed, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			ctx := c.Request.Context()
			u, err := h.app.Users.FindByID(ctx, ez.UserID(c))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, domain.ErrNotLoggedIn
			}
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			return orders.Checkout(ctx, u.ID, name)
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			return orders.ListForUser(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/seller/orders",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  seller,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			return orders.ListForSeller(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(authed, ez.Action[statusIn, *domain.Order]{
		Method: http.MethodPatch,
		Path:   "/seller/orders/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  seller,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Order, error) {
			ctx := c.Request.Context()
			o, err := orders.Get(ctx, c.Param("id"))
			if err != nil {
				return nil, err
			}
			if o == nil {
				return nil, ez.NotFound("order not found")
			}
			if o.SellerID != ez.UserID(c) {
				return nil, ez.Forbidden("not your order")
			}
			return orders.UpdateStatus(ctx, o.ID, in.Status)
		},
	})
}
