package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"storefront/internal/domain"
	resp "storefront/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests; writers queue on the store lock anyway.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			abort(c, resp.CodeUnavailable, domain.ErrServerBusy)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
