// Package ez registers typed JSON actions on gin groups and renders their
// results in the response envelope.
package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/service"
	mdw "storefront/internal/transport/http/middleware"
	resp "storefront/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// AErr is an error carrying the envelope code it should be rendered with.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AErr) Unwrap() error { return e.Err }

// Msg is for logs only; the rendered text comes from the wrapped error.
func BadRequest(msg string) error {
	return &AErr{Code: resp.CodeBadRequest, Msg: msg, Err: domain.ErrInvalidInput}
}
func Unauthorized(msg string) error {
	return &AErr{Code: resp.CodeUnauthorized, Msg: msg, Err: domain.ErrNotLoggedIn}
}
func Forbidden(msg string) error {
	return &AErr{Code: resp.CodeForbidden, Msg: msg, Err: domain.ErrForbidden}
}
func NotFound(msg string) error { return &AErr{Code: resp.CodeNotFound, Msg: msg, Err: domain.ErrNotFound} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // requires a user id set by the JWT middleware
	Roles   []string // any of; empty means every role
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](g *gin.RouterGroup, a Action[I, O]) {
	g.Handle(a.Method, a.Path, func(c *gin.Context) {
		if a.Auth && UserID(c) == "" {
			write(c, resp.CodeUnauthorized, domain.ErrNotLoggedIn)
			return
		}
		if len(a.Roles) > 0 && !hasRole(c.GetString(mdw.KeyRole), a.Roles) {
			write(c, resp.CodeForbidden, domain.ErrForbidden)
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			mdw.Log(c).Debug("bind request", zap.String("path", a.Path), zap.Error(bindErr))
			write(c, resp.CodeBadRequest, domain.ErrInvalidInput)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			code, _ := Render(err, Lang(c))
			if code >= resp.CodeServerError {
				mdw.Log(c).Error("action failed", zap.String("path", a.Path), zap.Error(err))
			}
			write(c, code, err)
			return
		}
		c.Set(resp.KeyCode, resp.CodeOK)
		c.JSON(http.StatusOK, resp.OK(out))
	})
}

// write renders err as a localized envelope with the given code.
func write(c *gin.Context, code int, err error) {
	c.Set(resp.KeyCode, code)
	c.JSON(http.StatusOK, resp.Error(code, service.Message(err, Lang(c))))
}

// Render maps err to an envelope code and a localized message.
func Render(err error, lang string) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, service.Message(err, lang)
	}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrEmptyCart):
		return resp.CodeBadRequest, service.Message(err, lang)
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrVersionConflict):
		return resp.CodeConflict, service.Message(err, lang)
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotLoggedIn):
		return resp.CodeUnauthorized, service.Message(err, lang)
	case errors.Is(err, domain.ErrStoreUnavailable):
		return resp.CodeUnavailable, service.Message(err, lang)
	}
	return resp.CodeServerError, service.Message(err, lang)
}

func UserID(c *gin.Context) string { return c.GetString(mdw.KeyUserID) }

// Lang picks "ar" or "en" from Accept-Language; anything else renders both.
func Lang(c *gin.Context) string {
	al := c.GetHeader("Accept-Language")
	if len(al) >= 2 {
		return al[:2]
	}
	return ""
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
