package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
)

type UserModule struct {
	Handler  *handlers.UserHandler
	Identity gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, identity gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Identity: identity}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/user-info", m.Identity, m.Handler.UserInfo)
}
