package server

import (
	"net/http"
	"time"

	"townbank/infrastructure/observability"
	"townbank/server/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Handlers groups the application operations exposed over HTTP
type Handlers struct {
	Accounts  AccountAPI
	Credits   CreditAPI
	Transfers TransferAPI
	Wagers    WagerAPI
	Cycle     CycleAPI
	Roles     RoleAPI
}

// Options configures the cross-cutting parts of the router
type Options struct {
	Tokens            middleware.TokenValidator
	Redis             *redis.Client // nil disables rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Metrics           *observability.MetricsProvider
	Ready             func() error // nil reports always ready
}

type api struct {
	Handlers
}

// NewRouter builds the gin engine serving /api/v1, /healthz and /metrics
func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(opts.Metrics))

	router.GET("/healthz", healthz(opts.Ready))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := &api{Handlers: h}

	limited := func(c *gin.Context) { c.Next() }
	if opts.Redis != nil {
		limited = middleware.RateLimit(opts.Redis, opts.RateLimitRequests, opts.RateLimitWindow)
	}

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", limited, a.register)
	v1.POST("/auth/login", limited, a.login)

	authed := v1.Group("", middleware.Auth(opts.Tokens))

	authed.GET("/me", a.me)
	authed.GET("/me/history", a.history)
	authed.PUT("/me/nickname", a.setNickname)

	authed.POST("/credits", limited, a.takeLoan)
	authed.GET("/credits", a.listCredits)
	authed.GET("/credits/:id", a.getCredit)
	authed.POST("/credits/:id/repay", limited, a.repay)

	authed.POST("/transfers", limited, a.transfer)
	authed.GET("/transfers", a.listTransfers)

	authed.POST("/wagers/sessions", a.initiateSession)
	authed.GET("/wagers/sessions", a.listSessions)
	authed.GET("/wagers/sessions/:id", a.getSession)
	authed.POST("/wagers/sessions/:id/commit", limited, a.commitStake)
	authed.POST("/wagers/sessions/:id/cancel", a.cancelSession)
	authed.POST("/wagers/sessions/:id/decline", a.declineSession)
	authed.GET("/wagers/games/:id", a.getGame)
	authed.POST("/wagers/games/:id/resolve", a.resolveGame)

	authed.GET("/cycle", a.getCycle)
	authed.POST("/cycle/advance", a.advanceCycle)

	admin := authed.Group("/admin")
	admin.POST("/mayors/:id", a.promoteMayor)
	admin.DELETE("/mayors/:id", a.demoteMayor)
	admin.PUT("/accounts/:id/job", a.assignJob)
	admin.DELETE("/accounts/:id/job", a.removeJob)
	admin.PUT("/accounts/:id/casino-staff", a.setCasinoStaff)
	admin.PUT("/accounts/:id/active", a.setActive)
	admin.POST("/accounts/:id/adjust", a.forceAdjust)
	admin.POST("/secrets", a.issueSecret)
	admin.DELETE("/secrets/:id", a.revokeSecret)

	authed.POST("/roles/creator/claim", limited, a.claimCreator)

	return router
}

func healthz(ready func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			if err := ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
