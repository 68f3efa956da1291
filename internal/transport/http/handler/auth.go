package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/transport/http/ez"
)

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *Handler) issue(u *domain.User) (authOut, error) {
	tok, err := h.jwter.Issue(u.ID, string(u.Role))
	if err != nil {
		return authOut{}, ez.Internal("issue token failed", err)
	}
	return authOut{Token: tok, User: u}, nil
}

func (h *Handler) mountAuth(login, authed *gin.RouterGroup) {
	ez.RegisterAction(login, ez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (authOut, error) {
			u, err := h.app.Auth.Authenticate(c.Request.Context(), strings.TrimSpace(in.Email), in.Password)
			if err != nil {
				return authOut{}, err
			}
			return h.issue(u)
		},
	})

	ez.RegisterAction(login, ez.Action[domain.UserInput, authOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.UserInput) (authOut, error) {
			in.Email = strings.TrimSpace(in.Email)
			u, err := h.app.Auth.SignUp(c.Request.Context(), *in)
			if err != nil {
				return authOut{}, err
			}
			return h.issue(u)
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := h.app.Users.FindByID(c.Request.Context(), ez.UserID(c))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, ez.NotFound("user not found")
			}
			return u, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[domain.UserUpdate, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.UserUpdate) (*domain.User, error) {
			return h.app.Auth.UpdateProfileFor(c.Request.Context(), ez.UserID(c), *in)
		},
	})
}
