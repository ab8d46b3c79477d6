package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
	"github.com/oksasatya/club-subdomain-portal/internal/interface/middleware"
)

const debugPerMinute = 60

type DebugModule struct {
	Handler *handlers.DebugHandler
	Limits  Limits
}

func NewDebugModule(h *handlers.DebugHandler, limits Limits) *DebugModule {
	return &DebugModule{Handler: h, Limits: limits}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// rate-limited per IP, private networks bypass
	rl := middleware.RateLimit(m.Limits.Redis, debugPerMinute, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	g := rg.Group("/debug", rl)
	g.GET("/config", m.Handler.Config)
	g.GET("/vars", m.Handler.Vars)
}
