package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/internal/application"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

const CtxIdentityKey = "identity"

// IdentityResolver is satisfied by *application.Verifier.
type IdentityResolver interface {
	Resolve(ctx context.Context, r *http.Request) application.Verification
}

// RequireIdentity resolves the caller and rejects anonymous requests with 401.
// Cookies produced while resolving are written in both cases.
func RequireIdentity(v IdentityResolver, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolve(c, v, cookies)
		if !id.Authenticated {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		c.Next()
	}
}

// OptionalIdentity resolves the caller but lets anonymous requests through.
func OptionalIdentity(v IdentityResolver, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve(c, v, cookies)
		c.Next()
	}
}

func resolve(c *gin.Context, v IdentityResolver, cookies *helpers.Manager) entity.Identity {
	res := v.Resolve(c.Request.Context(), c.Request)
	cookies.Apply(c.Writer, res.Cookies)
	c.Set(CtxIdentityKey, res.Identity)
	if res.Identity.Email != "" {
		c.Set("userEmail", res.Identity.Email)
	}
	return res.Identity
}

// IdentityFrom returns the identity stored by RequireIdentity or OptionalIdentity.
func IdentityFrom(c *gin.Context) entity.Identity {
	if v, ok := c.Get(CtxIdentityKey); ok {
		if id, ok := v.(entity.Identity); ok {
			return id
		}
	}
	return entity.Identity{}
}
