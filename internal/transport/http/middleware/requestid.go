package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/store"
)

const (
	KeyRequestID = "X-Request-ID"
	KeyLogger    = "logger"
)

// StoreInfo is the part of the store engine request logs report on.
type StoreInfo interface {
	State() store.State
	Version() int64
}

// RequestID echoes or assigns X-Request-ID and stores a request logger
// tagged with the id and the document version the request started from.
func RequestID(l *zap.Logger, st StoreInfo) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)

		fields := []zap.Field{zap.String("request_id", rid)}
		if st != nil {
			fields = append(fields,
				zap.Stringer("store_state", st.State()),
				zap.Int64("doc_version", st.Version()))
		}
		c.Set(KeyLogger, l.With(fields...))
		c.Next()
	}
}

// Log returns the request logger set by RequestID, or a no-op logger.
func Log(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(KeyLogger); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
