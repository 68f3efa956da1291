// Package handler holds the storefront's JSON endpoints.
package handler

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/app"
	"storefront/internal/core/auth"
)

type Handler struct {
	app   *app.App
	jwter *auth.JWTer
}

func New(a *app.App, j *auth.JWTer) *Handler { return &Handler{app: a, jwter: j} }

// Mount registers every endpoint; authed must already carry the JWT middleware.
// loginMW wraps only the login and register routes.
func (h *Handler) Mount(public, authed *gin.RouterGroup, loginMW ...gin.HandlerFunc) {
	h.mountAuth(public.Group("/auth", loginMW...), authed)
	h.mountCatalog(public, authed)
	h.mountCart(authed)
	h.mountOrders(authed)
	h.mountReviews(public, authed)
}
