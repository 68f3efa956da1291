package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
	resp "storefront/internal/transport/http/response"
)

func abort(c *gin.Context, code int, err error) {
	c.Set(resp.KeyCode, code)
	c.AbortWithStatusJSON(http.StatusOK, resp.Error(code, service.Message(err, c.GetHeader("Accept-Language"))))
}
