package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
)

// AuthModule serves the sign-in redirects under /api/logto.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// callbacks are exempt
	g := rg.Group("/logto", m.Limits.perIP(m.Limits.Auth, rg.BasePath()+"/logto/callback"))
	g.GET("/sign-in", m.Handler.SignIn)
	g.GET("/callback", m.Handler.Callback)
	g.GET("/sign-out", m.Handler.SignOut)
}
