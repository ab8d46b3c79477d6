package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
)

type CatalogModule struct {
	Handler  *handlers.CatalogHandler
	Identity gin.HandlerFunc
	Limits   Limits
}

func NewCatalogModule(h *handlers.CatalogHandler, identity gin.HandlerFunc, limits Limits) *CatalogModule {
	return &CatalogModule{Handler: h, Identity: identity, Limits: limits}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("", m.Identity, m.Limits.perCaller(m.Limits.Gateway))
	g.GET("/club-names", m.Handler.ListClubNames)
	g.GET("/domains", m.Handler.ListDomains)
}
