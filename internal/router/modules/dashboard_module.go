package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
)

// DashboardModule serves the page at / and its assets under /static.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
}

func NewDashboardModule(h *handlers.DashboardHandler) *DashboardModule {
	return &DashboardModule{Handler: h}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)
	rg.StaticFS("/static", m.Handler.StaticFS())
}
