package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/internal/application"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/interface/middleware"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

type UserHandler struct {
	Svc *application.GatewayService
}

func NewUserHandler(svc *application.GatewayService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type userInfoBody struct {
	Sub               string        `json:"sub"`
	Email             string        `json:"email"`
	Name              string        `json:"name,omitempty"`
	Roles             []entity.Role `json:"roles"`
	CanCreateMultiple bool          `json:"canCreateMultiple"`
	IsAdmin           bool          `json:"isAdmin"`
}

type userInfoResponse struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	UserInfo        *userInfoBody `json:"userInfo"`
}

// UserInfo GET /api/user-info. Anonymous callers get 200 with isAuthenticated=false.
func (h *UserHandler) UserInfo(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if !id.Authenticated {
		response.Payload(c, http.StatusOK, userInfoResponse{})
		return
	}
	roles := id.Roles
	if roles == nil {
		roles = []entity.Role{}
	}
	response.Payload(c, http.StatusOK, userInfoResponse{
		IsAuthenticated: true,
		UserInfo: &userInfoBody{
			Sub:               id.Subject,
			Email:             id.Email,
			Name:              id.Name,
			Roles:             roles,
			CanCreateMultiple: h.Svc.CanCreateMultiple(id),
			IsAdmin:           h.Svc.IsAdmin(id),
		},
	})
}
