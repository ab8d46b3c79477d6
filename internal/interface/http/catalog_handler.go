package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/internal/application"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

type CatalogHandler struct {
	Svc    *application.GatewayService
	Errors *ErrorResponder
}

func NewCatalogHandler(svc *application.GatewayService, errs *ErrorResponder) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Errors: errs}
}

// ListClubNames GET /api/club-names?search=
func (h *CatalogHandler) ListClubNames(c *gin.Context) {
	out, err := h.Svc.ListClubNames(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Payload(c, http.StatusOK, out)
}

// ListDomains GET /api/domains
func (h *CatalogHandler) ListDomains(c *gin.Context) {
	out, err := h.Svc.ListDomains(c.Request.Context())
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Payload(c, http.StatusOK, out)
}
