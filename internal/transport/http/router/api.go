package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront/internal/app"
	"storefront/internal/core/auth"
	"storefront/internal/core/config"
	"storefront/internal/core/server"
	"storefront/internal/store"
	"storefront/internal/transport/http/handler"
	mdw "storefront/internal/transport/http/middleware"
)

const maxBody = 4 << 20

func NewAPIEngine(l *zap.Logger, a *app.App, jwter *auth.JWTer, hc config.HTTP) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(mdw.RequestID(l, a.Store), mdw.MaxBodyBytes(maxBody), mdw.Metrics())
	// zero values switch the limits off
	if hc.RateLimitRPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(hc.RateLimitRPS), hc.RateLimitBurst))
	}
	if hc.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(hc.MaxConcurrent))
	}
	if hc.RequestTimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(hc.RequestTimeoutSec) * time.Second))
	}

	r.GET("/health", func(c *gin.Context) {
		st := a.Store.State()
		code := http.StatusOK
		if st != store.StateReady {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"ok": st == store.StateReady, "state": st.String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	handler.New(a, jwter).Mount(api, authed, mdw.RateLimitPerIP(5, 10))
	return r
}
