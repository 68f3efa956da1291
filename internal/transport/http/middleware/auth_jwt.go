package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/domain"
	resp "storefront/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT requires a bearer token; requireRole, when set, must match the
// token's role.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, domain.ErrNotLoggedIn)
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			Log(c).Debug("rejected token", zap.Error(err))
			abort(c, resp.CodeUnauthorized, domain.ErrInvalidToken)
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			abort(c, resp.CodeForbidden, domain.ErrForbidden)
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
