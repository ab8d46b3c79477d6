package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/club-subdomain-portal/internal/interface/middleware"
)

// Limits are per-minute request budgets. A nil Redis disables limiting.
type Limits struct {
	Redis   *redis.Client
	Auth    int
	Gateway int
}

// perIP skips private networks and any exempt paths.
func (l Limits) perIP(max int, exempt ...string) gin.HandlerFunc {
	allow := middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowPaths(exempt...))
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByIPAndPath(), allow)
}

// perCaller must run after the identity middleware.
func (l Limits) perCaller(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByEmail(), nil)
}
