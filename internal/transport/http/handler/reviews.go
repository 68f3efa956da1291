package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/transport/http/ez"
)

type reviewIn struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *Handler) mountReviews(public, authed *gin.RouterGroup) {
	reviews := h.app.Reviews

	ez.RegisterAction(public, ez.Action[struct{}, []domain.Review]{
		Method: http.MethodGet,
		Path:   "/products/:id/reviews",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Review, error) {
			return reviews.ListForProduct(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(authed, ez.Action[reviewIn, *domain.Review]{
		Method: http.MethodPost,
		Path:   "/products/:id/reviews",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *reviewIn) (*domain.Review, error) {
			ctx := c.Request.Context()
			u, err := h.app.Users.FindByID(ctx, ez.UserID(c))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, domain.ErrNotLoggedIn
			}
			return reviews.Add(ctx, domain.ReviewInput{
				ProductID: c.Param("id"),
				UserID:    u.ID,
				UserName:  strings.TrimSpace(u.FirstName + " " + u.LastName),
				Rating:    in.Rating,
				Comment:   in.Comment,
			})
		},
	})
}
