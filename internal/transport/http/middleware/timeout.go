package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	resp "storefront/internal/transport/http/response"
)

// Timeout bounds the request context handed to the store; storage backends
// honour it on their reads and writes.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			abort(c, resp.CodeUnavailable, domain.ErrTimeout)
		}
	}
}
