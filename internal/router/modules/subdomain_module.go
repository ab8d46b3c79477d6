package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
)

// SubdomainModule wires the owner-scoped subdomain endpoints.
// All routes require an authenticated caller.
type SubdomainModule struct {
	Handler  *handlers.SubdomainHandler
	Identity gin.HandlerFunc
	Limits   Limits
}

func NewSubdomainModule(h *handlers.SubdomainHandler, identity gin.HandlerFunc, limits Limits) *SubdomainModule {
	return &SubdomainModule{Handler: h, Identity: identity, Limits: limits}
}

func (m *SubdomainModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/subdomains", m.Identity, m.Limits.perCaller(m.Limits.Gateway))
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.PUT("/:id", m.Handler.Update)
}
