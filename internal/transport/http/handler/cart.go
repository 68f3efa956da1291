package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
	"storefront/internal/transport/http/ez"
)

type cartIn struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) mountCart(authed *gin.RouterGroup) {
	carts := h.app.Carts

	ez.RegisterAction(authed, ez.Action[struct{}, *service.CartView]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.CartView, error) {
			return carts.Load(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(authed, ez.Action[cartIn, *service.CartView]{
		Method: http.MethodPost,
		Path:   "/cart",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *cartIn) (*service.CartView, error) {
			if in.Quantity == 0 {
				in.Quantity = 1
			}
			return carts.Add(c.Request.Context(), ez.UserID(c), in.ProductID, in.Quantity)
		},
	})

	ez.RegisterAction(authed, ez.Action[cartIn, *service.CartView]{
		Method: http.MethodPut,
		Path:   "/cart",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *cartIn) (*service.CartView, error) {
			return carts.UpdateQuantity(c.Request.Context(), ez.UserID(c), in.ProductID, in.Quantity)
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *service.CartView]{
		Method: http.MethodDelete,
		Path:   "/cart/:productId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.CartView, error) {
			return carts.Remove(c.Request.Context(), ez.UserID(c), c.Param("productId"))
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *service.CartView]{
		Method: http.MethodDelete,
		Path:   "/cart",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.CartView, error) {
			return carts.Clear(c.Request.Context(), ez.UserID(c))
		},
	})
}
